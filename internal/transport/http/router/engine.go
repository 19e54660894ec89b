package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"memotheque/internal/core/auth"
	"memotheque/internal/flow"
	"memotheque/internal/service"
	mdw "memotheque/internal/transport/http/middleware"
)

type Deps struct {
	DB        *gorm.DB
	JWT       *auth.JWTer
	Accounts  *service.Accounts
	Lookups   *service.Lookups
	Theses    *service.Theses
	Stats     *service.Stats
	Activity  *service.Activity
	Favorites *service.Favorites
	Flow      flow.Store
	// MaxBody 请求体上限，按上传上限配置
	MaxBody int64
}

func NewEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()

	maxBody := d.MaxBody
	if maxBody <= 0 {
		maxBody = 100 << 20
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(maxBody+(1<<20)), // 上传上限 + 表单裕量
		mdw.Timeout(60*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公共端 v1
	api := r.Group("/api/v1")
	mountAuthActions(api, d)

	// 鉴权分组（访客与管理员均可）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))
	mountBrowseActions(authed, d)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, "admin"))
	mountCatalogActions(admin, d)
	mountThesisAdminActions(admin, d)
	mountLogActions(admin, d)

	return r
}
