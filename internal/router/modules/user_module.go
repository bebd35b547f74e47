package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jobboard-api/internal/container"
	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
)

// UserModule mounts /user.
// Public: signUp, confirm-email, signIn, forgetPassword, resetPassword.
// Everything else requires a session token.
type UserModule struct {
	Handler  *handlers.UserHandler
	Resolver middleware.PrincipalResolver
}

func NewUserModule(h *handlers.UserHandler, resolver middleware.PrincipalResolver) *UserModule {
	return &UserModule{Handler: h, Resolver: resolver}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	g := rg.Group("/user")

	signUpLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	signInLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	g.POST("/signUp", signUpLimiter, m.Handler.SignUp)
	g.GET("/confirm-email/:token", confirmLimiter, m.Handler.ConfirmEmail)
	g.POST("/signIn", signInLimiter, m.Handler.SignIn)
	g.POST("/forgetPassword", forgetLimiter, m.Handler.ForgetPassword)
	g.POST("/resetPassword", resetLimiter, m.Handler.ResetPassword)

	auth := g.Group("")
	auth.Use(
		middleware.Auth(m.Resolver),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByPrincipal(), nil),
	)
	{
		auth.POST("/logOut", m.Handler.SignOut)
		auth.PUT("/updateAccount", m.Handler.UpdateAccount)
		auth.DELETE("/deleteAccount", m.Handler.DeleteAccount)
		auth.GET("/getAccountData", m.Handler.GetAccountData)
		auth.GET("/getProfileData", m.Handler.GetProfileData)
		auth.GET("/getProfileData/:userId", m.Handler.GetProfileData)
		auth.PATCH("/updatePassword", m.Handler.UpdatePassword)
		auth.GET("/getRecoveryEmail", m.Handler.GetRecoveryEmailAccounts)
	}
}
