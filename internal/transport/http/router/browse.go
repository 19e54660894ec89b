package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memotheque/internal/domain"
	"memotheque/internal/service"
	"memotheque/internal/transport/http/ez"
	resp "memotheque/internal/transport/http/response"
)

// mountBrowseActions 登录后（访客/管理员）可用的查询面
func mountBrowseActions(g *gin.RouterGroup, d Deps) {
	e := ez.New(g)

	type none struct{}

	// --- GET /me ---
	ez.RegisterAction[none, *service.AuthUser](e, d.DB, ez.Action[none, *service.AuthUser]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (*service.AuthUser, error) {
			u, err := d.Accounts.Get(c, actorID(c))
			if err != nil {
				return nil, svcErr(err)
			}
			return u, nil
		},
	})

	// --- 查字典表 ---
	ez.RegisterAction[none, []domain.Entity](e, d.DB, ez.Action[none, []domain.Entity]{
		Method: http.MethodGet,
		Path:   "/entities",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) ([]domain.Entity, error) {
			return d.Lookups.Entities.List(c, 0)
		},
	})

	type programQuery struct {
		EntityID uint `form:"entity_id"`
	}
	ez.RegisterAction[programQuery, []domain.Program](e, d.DB, ez.Action[programQuery, []domain.Program]{
		Method: http.MethodGet,
		Path:   "/programs",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *programQuery) ([]domain.Program, error) {
			return d.Lookups.Programs.List(c, in.EntityID)
		},
	})

	ez.RegisterAction[none, []domain.Session](e, d.DB, ez.Action[none, []domain.Session]{
		Method: http.MethodGet,
		Path:   "/sessions",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) ([]domain.Session, error) {
			return d.Lookups.Sessions.List(c, 0)
		},
	})

	// --- GET /theses 组合检索 + 分页 ---
	type searchQuery struct {
		Q         string `form:"q"`
		EntityID  uint   `form:"entity_id"`
		ProgramID uint   `form:"program_id"`
		SessionID uint   `form:"session_id"`
		Page      int    `form:"page,default=1"`
	}
	ez.RegisterAction[searchQuery, *service.SearchResult](e, d.DB, ez.Action[searchQuery, *service.SearchResult]{
		Method: http.MethodGet,
		Path:   "/theses",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *searchQuery) (*service.SearchResult, error) {
			f := service.Filter{
				Text:      in.Q,
				EntityID:  in.EntityID,
				ProgramID: in.ProgramID,
				SessionID: in.SessionID,
			}
			res, err := d.Theses.Search(c, f, in.Page)
			if err != nil {
				return nil, svcErr(err)
			}
			return res, nil
		},
	})

	// --- GET /theses/:id ---
	ez.RegisterAction[none, *service.ThesisRow](e, d.DB, ez.Action[none, *service.ThesisRow]{
		Method: http.MethodGet,
		Path:   "/theses/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (*service.ThesisRow, error) {
			id, ok := pathID(c)
			if !ok {
				return nil, ez.BadRequest("invalid id")
			}
			row, err := d.Theses.Details(c, id)
			if err != nil {
				return nil, svcErr(err)
			}
			return row, nil
		},
	})

	// --- GET /theses/:id/download 本地后端内联 PDF，对象存储回限时 URL ---
	g.GET("/theses/:id/download", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			writeErr(c, ez.BadRequest("invalid id"))
			return
		}
		dl, err := d.Theses.FetchFile(c, id)
		if err != nil {
			writeErr(c, err)
			return
		}
		if dl.URL != "" {
			c.JSON(http.StatusOK, resp.OK(dl))
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename=%q`, dl.Filename))
		c.Data(http.StatusOK, "application/pdf", dl.Bytes)
	})

	// --- GET /stats ---
	ez.RegisterAction[none, *service.Statistics](e, d.DB, ez.Action[none, *service.Statistics]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (*service.Statistics, error) {
			return d.Stats.Get(c)
		},
	})

	// --- 收藏 ---
	type favOut struct {
		Message string `json:"message"`
	}
	ez.RegisterAction[none, favOut](e, d.DB, ez.Action[none, favOut]{
		Method: http.MethodPost,
		Path:   "/theses/:id/favorite",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (favOut, error) {
			id, ok := pathID(c)
			if !ok {
				return favOut{}, ez.BadRequest("invalid id")
			}
			if err := d.Favorites.Add(c, actorID(c), id); err != nil {
				return favOut{}, svcErr(err)
			}
			return favOut{Message: "bookmarked"}, nil
		},
	})
	ez.RegisterAction[none, favOut](e, d.DB, ez.Action[none, favOut]{
		Method: http.MethodDelete,
		Path:   "/theses/:id/favorite",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (favOut, error) {
			id, ok := pathID(c)
			if !ok {
				return favOut{}, ez.BadRequest("invalid id")
			}
			if err := d.Favorites.Remove(c, actorID(c), id); err != nil {
				return favOut{}, svcErr(err)
			}
			return favOut{Message: "removed"}, nil
		},
	})
	ez.RegisterAction[none, []service.FavoriteRow](e, d.DB, ez.Action[none, []service.FavoriteRow]{
		Method: http.MethodGet,
		Path:   "/favorites",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) ([]service.FavoriteRow, error) {
			return d.Favorites.List(c, actorID(c))
		},
	})
}
