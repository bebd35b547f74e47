package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.SignUp(c.Request.Context(), req.input())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created, check your inbox to confirm your email", nil)
}

func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	u, err := h.Svc.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "email confirmed", nil)
}

func (h *UserHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), application.SignInInput{
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		RecoveryEmail: req.RecoveryEmail,
		Password:      req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "user": res.User}, "signed in", gin.H{"expires_at": res.ExpiresAt})
}

func (h *UserHandler) SignOut(c *gin.Context) {
	if err := h.Svc.SignOut(c.Request.Context(), middleware.PrincipalFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"signed_out": true}, "signed out", nil)
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateAccount(c.Request.Context(), middleware.PrincipalFrom(c), req.input())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "account updated"
	if !u.IsConfirmed {
		msg = "account updated, confirm your new email to sign in again"
	}
	response.Success(c, http.StatusOK, u, msg, nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	report, err := h.Svc.DeleteAccount(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, report, "account deleted", nil)
}

func (h *UserHandler) GetAccountData(c *gin.Context) {
	u, err := h.Svc.GetAccountData(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "account data", nil)
}

// GetProfileData serves both /getProfileData/:userId and /getProfileData?userId=.
func (h *UserHandler) GetProfileData(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		userID = c.Query("userId")
	}
	profile, err := h.Svc.GetProfileData(c.Request.Context(), middleware.PrincipalFrom(c), userID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profile, "profile data", nil)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), middleware.PrincipalFrom(c), req.OldPassword, req.NewPassword); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "password updated, please sign in again", nil)
}

func (h *UserHandler) ForgetPassword(c *gin.Context) {
	var req forgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "a reset code has been sent to your email", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset, please sign in", nil)
}

func (h *UserHandler) GetRecoveryEmailAccounts(c *gin.Context) {
	users, err := h.Svc.GetRecoveryEmailAccounts(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "accounts sharing your recovery email", gin.H{"count": len(users)})
}
