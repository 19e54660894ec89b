package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memotheque/internal/service"
	"memotheque/internal/transport/http/ez"
	resp "memotheque/internal/transport/http/response"
)

// svcErr 服务层错误 → 响应码；未知错误按 500 透出可读消息
func svcErr(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return ez.BadRequest(err.Error())
	case errors.Is(err, service.ErrAuth):
		return ez.Unauthorized("invalid credentials")
	case errors.Is(err, service.ErrDuplicate):
		return ez.Conflict(err.Error())
	case errors.Is(err, service.ErrReferenced):
		return ez.Conflict(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return ez.NotFound(err.Error())
	case errors.Is(err, service.ErrStorage):
		return ez.Internal("storage failure", err)
	default:
		return err
	}
}

// writeErr 非 Action 注册的 handler（multipart 上传等）用
func writeErr(c *gin.Context, err error) {
	mapped := svcErr(err)
	var ae *ez.AErr
	if errors.As(mapped, &ae) {
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, mapped.Error()))
}

func actorID(c *gin.Context) uint { return c.GetUint("uid") }

func pathID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
