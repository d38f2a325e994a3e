package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veracomply/veracomply-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		OrganizationName string `json:"organization_name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		FullName         string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	token, user, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		OrganizationName: req.OrganizationName,
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "register_failed", err)
		return
	}
	RespondOK(c, gin.H{"access_token": token, "user": user})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}
	RespondOK(c, gin.H{"access_token": token, "user": user})
}
