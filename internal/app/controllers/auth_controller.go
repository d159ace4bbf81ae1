package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secchub/secchub-backend/internal/app/models/dto"
	"github.com/secchub/secchub-backend/internal/app/services"
	"github.com/secchub/secchub-backend/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login verifies credentials and returns a token pair.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	tokens, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(tokens))
}
