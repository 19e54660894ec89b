package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memotheque/internal/domain"
	"memotheque/internal/transport/http/ez"
)

// mountCatalogActions 字典表维护（仅管理员分组挂载）
func mountCatalogActions(g *gin.RouterGroup, d Deps) {
	e := ez.New(g)

	type none struct{}
	type deleted struct {
		Message string `json:"message"`
	}

	delAction := func(path string, do func(c *gin.Context, id uint) error) {
		ez.RegisterAction[none, deleted](e, d.DB, ez.Action[none, deleted]{
			Method: http.MethodDelete,
			Path:   path,
			Binder: ez.BindNone,
			Auth:   true,
			Roles:  []string{domain.RoleAdmin},
			Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (deleted, error) {
				id, ok := pathID(c)
				if !ok {
					return deleted{}, ez.BadRequest("invalid id")
				}
				if err := do(c, id); err != nil {
					return deleted{}, svcErr(err)
				}
				return deleted{Message: "deleted"}, nil
			},
		})
	}

	// --- 实体（院系）---
	type entityIn struct {
		Name string `json:"name" binding:"required"`
	}
	ez.RegisterAction[entityIn, *domain.Entity](e, d.DB, ez.Action[entityIn, *domain.Entity]{
		Method: http.MethodPost,
		Path:   "/entities",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *gorm.DB, in *entityIn) (*domain.Entity, error) {
			row := &domain.Entity{Name: in.Name}
			if err := d.Lookups.Entities.Add(c, actorID(c), row); err != nil {
				return nil, svcErr(err)
			}
			return row, nil
		},
	})
	delAction("/entities/:id", func(c *gin.Context, id uint) error {
		return d.Lookups.Entities.Delete(c, actorID(c), id)
	})

	// --- 专业（隶属实体）---
	type programIn struct {
		Name     string `json:"name"     binding:"required"`
		EntityID uint   `json:"entityId" binding:"required"`
	}
	ez.RegisterAction[programIn, *domain.Program](e, d.DB, ez.Action[programIn, *domain.Program]{
		Method: http.MethodPost,
		Path:   "/programs",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *gorm.DB, in *programIn) (*domain.Program, error) {
			row := &domain.Program{Name: in.Name, EntityID: in.EntityID}
			if err := d.Lookups.Programs.Add(c, actorID(c), row); err != nil {
				return nil, svcErr(err)
			}
			return row, nil
		},
	})
	delAction("/programs/:id", func(c *gin.Context, id uint) error {
		return d.Lookups.Programs.Delete(c, actorID(c), id)
	})

	// --- 学年 ---
	type sessionIn struct {
		Label string `json:"label" binding:"required"`
	}
	ez.RegisterAction[sessionIn, *domain.Session](e, d.DB, ez.Action[sessionIn, *domain.Session]{
		Method: http.MethodPost,
		Path:   "/sessions",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *gorm.DB, in *sessionIn) (*domain.Session, error) {
			row := &domain.Session{Label: in.Label}
			if err := d.Lookups.Sessions.Add(c, actorID(c), row); err != nil {
				return nil, svcErr(err)
			}
			return row, nil
		},
	})
	delAction("/sessions/:id", func(c *gin.Context, id uint) error {
		return d.Lookups.Sessions.Delete(c, actorID(c), id)
	})
}
