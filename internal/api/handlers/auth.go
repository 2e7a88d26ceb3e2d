package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/service"
)

// AuthHandler 處理與認證相關的請求
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 創建一個新的 AuthHandler 實例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginInput 定義登入請求的結構
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// RegisterInput 定義註冊請求的結構
type RegisterInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6,max=100,strongpwd"`
	Name     string          `json:"name" binding:"required,min=2,max=100"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

// RefreshInput 定義換發 token 請求的結構
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Login 處理用戶登入
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", result)
}

// Register 處理用戶註冊，成功後直接回傳 token
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     input.Role,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Registration successful", result)
}

// Refresh 以 refresh token 換發新的一組 token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed successfully", tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "Logout successful", nil)
}

// Me 回傳目前登入使用者的資料
func (h *AuthHandler) Me(c *gin.Context) {
	respond(c, http.StatusOK, "Profile retrieved successfully", middleware.CurrentUser(c))
}
