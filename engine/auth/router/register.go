package router

import (
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/auth/uc"
	authmw "github.com/equipsight/equipsight/engine/infra/server/middleware/auth"
	"github.com/equipsight/equipsight/engine/infra/server/middleware/ratelimit"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth routes.
func RegisterRoutes(
	apiBase *gin.RouterGroup,
	factory *uc.Factory,
	tokens *token.Manager,
	limits *ratelimit.Manager,
) {
	handler := NewHandler(factory, tokens)
	authManager := authmw.NewManager(factory, tokens)

	authGroup := apiBase.Group("/auth")
	{
		// Endpoints that send an email carry the stricter OTP rate limit.
		otpLimited := authGroup.Group("")
		if limits != nil {
			otpLimited.Use(limits.OTPMiddleware())
		}
		otpLimited.POST("/register", handler.Register)
		otpLimited.POST("/request-password-reset", handler.RequestPasswordReset)
		otpLimited.POST("/resend-otp", handler.ResendOTP)

		authGroup.POST("/verify-signup-otp", handler.VerifySignupOTP)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/verify-reset-otp", handler.VerifyResetOTP)
		authGroup.POST("/reset-password", handler.ResetPassword)

		me := authGroup.Group("")
		me.Use(authManager.Middleware())
		me.Use(authManager.RequireAuth())
		me.GET("/me", handler.Me)
	}
}
