package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memotheque/internal/service"
	"memotheque/internal/transport/http/ez"
)

// mountLogActions 操作日志查询（管理员分组）
func mountLogActions(g *gin.RouterGroup, d Deps) {
	e := ez.New(g)

	type logQuery struct {
		Limit  int   `form:"limit,default=100"`
		UserID *uint `form:"user_id"`
	}
	ez.RegisterAction[logQuery, []service.LogRow](e, d.DB, ez.Action[logQuery, []service.LogRow]{
		Method: http.MethodGet,
		Path:   "/logs",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *logQuery) ([]service.LogRow, error) {
			return d.Activity.Recent(c, in.Limit, in.UserID)
		},
	})
}
