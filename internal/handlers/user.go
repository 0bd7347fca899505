package handlers

import (
	"errors"

	"newsapi/internal/apperr"
	"newsapi/internal/auth"
	"newsapi/internal/middleware"
	"newsapi/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(gdb *gorm.DB) *UserHandler {
	return &UserHandler{db: gdb}
}

func (h *UserHandler) Me(c *gin.Context) {
	OK(c, middleware.CurrentUser(c))
}

type userUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			Fail(c, err)
			return
		}
		user.Password = hash
	}

	if err := h.db.Save(user).Error; err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

// List 获取用户列表（仅管理员）
func (h *UserHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	var users []models.User
	if err := h.db.
		Order("id ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

// GetByID 查看用户信息，普通用户只能查看自己
func (h *UserHandler) GetByID(c *gin.Context) {
	current := middleware.CurrentUser(c)

	id, ok := uintParam(c, "id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的用户ID"))
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, apperr.NotFound("用户不存在"))
			return
		}
		Fail(c, err)
		return
	}
	if !current.IsAdmin() && user.ID != current.ID {
		Fail(c, apperr.InvalidState("无权限访问其他用户信息"))
		return
	}
	OK(c, user)
}
