package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memotheque/internal/flow"
	"memotheque/internal/service"
	"memotheque/internal/transport/http/ez"
	"memotheque/pkg/utils"
)

const flowTTL = 30 * time.Minute

// mountAuthActions 登录/注册/找回密码。页面导航状态由 flow.Store 按令牌保存，
// 改密第二步只认第一步验证过的邮箱。
func mountAuthActions(api *gin.RouterGroup, d Deps) {
	pub := ez.New(api)

	// --- POST /auth/login ---
	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string           `json:"token"`
		User  *service.AuthUser `json:"user"`
	}
	ez.RegisterAction[loginIn, loginOut](pub, d.DB, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginIn) (loginOut, error) {
			u, err := d.Accounts.Authenticate(c, in.Email, in.Password)
			if err != nil {
				return loginOut{}, svcErr(err)
			}
			tok, err := d.JWT.Issue(u.ID, u.Name, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})

	// --- POST /auth/nav 无副作用的页面切换 ---
	type navIn struct {
		Token string `json:"token"`
		To    string `json:"to" binding:"required,oneof=register reset back"`
	}
	type navOut struct {
		Token  string      `json:"token"`
		Screen flow.Screen `json:"screen"`
	}
	ez.RegisterAction[navIn, navOut](pub, d.DB, ez.Action[navIn, navOut]{
		Method: http.MethodPost,
		Path:   "/auth/nav",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *navIn) (navOut, error) {
			token := in.Token
			if token == "" {
				token = utils.NewID()
			}
			st, err := d.Flow.Get(c, token)
			if err != nil {
				return navOut{}, ez.Internal("flow state", err)
			}
			var ev flow.Event
			switch in.To {
			case "register":
				ev = flow.GoRegister{}
			case "reset":
				ev = flow.GoReset{}
			default:
				ev = flow.Back{}
			}
			st = flow.Next(st, ev)
			if err := d.Flow.Put(c, token, st, flowTTL); err != nil {
				return navOut{}, ez.Internal("flow state", err)
			}
			return navOut{Token: token, Screen: st.Screen}, nil
		},
	})

	// --- POST /auth/register ---
	type registerOut struct {
		Message string `json:"message"`
	}
	type registerIn struct {
		Token string `json:"token"`
		service.RegisterInput
	}
	ez.RegisterAction[registerIn, registerOut](pub, d.DB, ez.Action[registerIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *registerIn) (registerOut, error) {
			if err := d.Accounts.Register(c, in.RegisterInput); err != nil {
				return registerOut{}, svcErr(err)
			}
			if in.Token != "" {
				st, _ := d.Flow.Get(c, in.Token)
				_ = d.Flow.Put(c, in.Token, flow.Next(st, flow.Registered{}), flowTTL)
			}
			return registerOut{Message: "Inscription réussie !"}, nil
		},
	})

	// --- POST /auth/forgot 第一步：验证邮箱存在并记住 ---
	type forgotIn struct {
		Token string `json:"token"`
		Email string `json:"email" binding:"required,email"`
	}
	type forgotOut struct {
		Token  string      `json:"token"`
		Screen flow.Screen `json:"screen"`
	}
	ez.RegisterAction[forgotIn, forgotOut](pub, d.DB, ez.Action[forgotIn, forgotOut]{
		Method: http.MethodPost,
		Path:   "/auth/forgot",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *forgotIn) (forgotOut, error) {
			exists, err := d.Accounts.EmailExists(c, in.Email)
			if err != nil {
				return forgotOut{}, err
			}
			if !exists {
				return forgotOut{}, ez.NotFound("unknown email")
			}
			token := in.Token
			if token == "" {
				token = utils.NewID()
			}
			st, err := d.Flow.Get(c, token)
			if err != nil {
				return forgotOut{}, ez.Internal("flow state", err)
			}
			if st.Screen != flow.ScreenResetStep1 {
				// 重新发起找回：从头走一遍，避免带着旧邮箱停在第二步
				st = flow.Next(flow.Initial(), flow.GoReset{})
			}
			st = flow.Next(st, flow.EmailVerified{Email: in.Email})
			if err := d.Flow.Put(c, token, st, flowTTL); err != nil {
				return forgotOut{}, ez.Internal("flow state", err)
			}
			return forgotOut{Token: token, Screen: st.Screen}, nil
		},
	})

	// --- POST /auth/reset 第二步：只改第一步记住的邮箱 ---
	type resetIn struct {
		Token    string `json:"token"    binding:"required"`
		Password string `json:"password" binding:"required"`
		Confirm  string `json:"confirm"  binding:"required"`
	}
	type resetOut struct {
		Message string `json:"message"`
	}
	ez.RegisterAction[resetIn, resetOut](pub, d.DB, ez.Action[resetIn, resetOut]{
		Method: http.MethodPost,
		Path:   "/auth/reset",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *resetIn) (resetOut, error) {
			st, err := d.Flow.Get(c, in.Token)
			if err != nil {
				return resetOut{}, ez.Internal("flow state", err)
			}
			if st.Screen != flow.ScreenResetStep2 || st.ResetEmail == "" {
				return resetOut{}, ez.BadRequest("no password reset in progress")
			}
			if in.Password != in.Confirm {
				return resetOut{}, ez.BadRequest("passwords do not match")
			}
			if err := d.Accounts.UpdatePassword(c, st.ResetEmail, in.Password); err != nil {
				return resetOut{}, svcErr(err)
			}
			_ = d.Flow.Delete(c, in.Token)
			return resetOut{Message: "Mot de passe mis à jour avec succès."}, nil
		},
	})
}
