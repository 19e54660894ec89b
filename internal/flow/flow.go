// Package flow 把登录/注册/找回密码的页面导航建模成显式状态机：
// 每个屏幕一个状态，迁移是纯函数，跨请求的状态按会话令牌存在服务端。
package flow

// Screen 当前所处屏幕；登录成功是独立的顶层状态，不在此枚举内
type Screen string

const (
	ScreenLoggedOut  Screen = "logged_out"
	ScreenRegister   Screen = "register"
	ScreenResetStep1 Screen = "reset_step1"
	ScreenResetStep2 Screen = "reset_step2"
)

type State struct {
	Screen Screen `json:"screen"`
	// ResetEmail 第一步验证过的邮箱，第二步靠它定位账号
	ResetEmail string `json:"resetEmail,omitempty"`
}

func Initial() State { return State{Screen: ScreenLoggedOut} }

type Event interface{ isEvent() }

type (
	// GoRegister 从登录页进入注册页
	GoRegister struct{}
	// GoReset 从登录页进入找回密码第一步
	GoReset struct{}
	// Back 任意步返回登录页，无副作用
	Back struct{}
	// EmailVerified 第一步邮箱存在，进入第二步
	EmailVerified struct{ Email string }
	// Registered 注册完成回登录页
	Registered struct{}
	// ResetDone 第二步改密完成回登录页
	ResetDone struct{}
)

func (GoRegister) isEvent()    {}
func (GoReset) isEvent()       {}
func (Back) isEvent()          {}
func (EmailVerified) isEvent() {}
func (Registered) isEvent()    {}
func (ResetDone) isEvent()     {}

// Next 纯迁移函数；未定义的 (state, event) 组合保持原状态
func Next(s State, e Event) State {
	switch ev := e.(type) {
	case Back:
		return Initial()
	case GoRegister:
		if s.Screen == ScreenLoggedOut {
			return State{Screen: ScreenRegister}
		}
	case GoReset:
		if s.Screen == ScreenLoggedOut {
			return State{Screen: ScreenResetStep1}
		}
	case EmailVerified:
		if s.Screen == ScreenResetStep1 {
			return State{Screen: ScreenResetStep2, ResetEmail: ev.Email}
		}
	case Registered:
		if s.Screen == ScreenRegister {
			return Initial()
		}
	case ResetDone:
		if s.Screen == ScreenResetStep2 {
			return Initial()
		}
	}
	return s
}
