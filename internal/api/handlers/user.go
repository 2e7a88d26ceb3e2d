package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/service"
)

// UserHandler 處理使用者管理相關的請求
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 創建一個新的 UserHandler 實例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// PageQuery 通用分頁參數
type PageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// CreateUserInput 管理員新增使用者
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6,max=100,strongpwd"`
	Name     string          `json:"name" binding:"required,min=2,max=100"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

// UpdateUserInput 只更新有帶入的欄位
type UpdateUserInput struct {
	Email    *string          `json:"email" binding:"omitempty,email"`
	Name     *string          `json:"name" binding:"omitempty,min=2,max=100"`
	Role     *models.UserRole `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	IsActive *bool            `json:"isActive"`
	Password *string          `json:"password" binding:"omitempty,min=6,max=100,strongpwd"`
}

func (h *UserHandler) List(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalid(c, err)
		return
	}

	page, err := h.userService.List(c.Request.Context(), query.Page, query.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.RegisterParams{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     input.Role,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalid(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), service.UpdateUserParams{
		Email:    input.Email,
		Name:     input.Name,
		Role:     input.Role,
		IsActive: input.IsActive,
		Password: input.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "User updated successfully", user)
}

// Delete 刪除使用者，不能刪除自己
func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.userService.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "User deleted successfully", nil)
}
