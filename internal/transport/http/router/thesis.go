package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memotheque/internal/service"
	"memotheque/internal/transport/http/ez"
	resp "memotheque/internal/transport/http/response"
)

// thesisForm multipart 表单 → 服务层入参
func thesisForm(c *gin.Context) service.ThesisInput {
	atoi := func(k string) uint {
		v, _ := strconv.ParseUint(c.PostForm(k), 10, 32)
		return uint(v)
	}
	return service.ThesisInput{
		Title:      c.PostForm("title"),
		Authors:    c.PostForm("authors"),
		Supervisor: c.PostForm("supervisor"),
		Abstract:   c.PostForm("abstract"),
		Tags:       c.PostForm("tags"),
		Version:    c.PostForm("version"),
		ProgramID:  atoi("program_id"),
		SessionID:  atoi("session_id"),
	}
}

// mountThesisAdminActions 论文的增改删。上传走 multipart，不套 Action 框架
func mountThesisAdminActions(g *gin.RouterGroup, d Deps) {
	e := ez.New(g)

	// --- POST /theses 新增（文件必传）---
	g.POST("/theses", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			writeErr(c, ez.BadRequest("pdf file is required"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeErr(c, ez.Internal("open upload", err))
			return
		}
		defer f.Close()

		row, err := d.Theses.Create(c, actorID(c), thesisForm(c), fh.Filename, f, fh.Size)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(row))
	})

	// --- PUT /theses/:id 修改（文件可选，缺省保留原文件）---
	g.PUT("/theses/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			writeErr(c, ez.BadRequest("invalid id"))
			return
		}
		in := thesisForm(c)

		fh, err := c.FormFile("file")
		if err != nil {
			// 无新文件
			if err = d.Theses.Update(c, actorID(c), id, in, "", nil, 0); err != nil {
				writeErr(c, err)
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"message": "updated"}))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeErr(c, ez.Internal("open upload", err))
			return
		}
		defer f.Close()
		if err = d.Theses.Update(c, actorID(c), id, in, fh.Filename, f, fh.Size); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"message": "updated"}))
	})

	// --- DELETE /theses/:id 先删行后删文件 ---
	type none struct{}
	type deleted struct {
		Message string `json:"message"`
	}
	ez.RegisterAction[none, deleted](e, d.DB, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/theses/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *none) (deleted, error) {
			id, ok := pathID(c)
			if !ok {
				return deleted{}, ez.BadRequest("invalid id")
			}
			if err := d.Theses.Delete(c, actorID(c), id); err != nil {
				return deleted{}, svcErr(err)
			}
			return deleted{Message: "deleted"}, nil
		},
	})
}
