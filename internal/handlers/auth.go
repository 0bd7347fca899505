package handlers

import (
	"errors"

	"newsapi/internal/apperr"
	"newsapi/internal/auth"
	"newsapi/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthHandler(gdb *gorm.DB, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: gdb, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		Fail(c, apperr.Conflict("该邮箱已被注册"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	user := models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: hash,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		// 预检查与写入之间的竞态由邮箱唯一索引兜底
		h.logger.Error("create user failed", zap.Error(err))
		Fail(c, err)
		return
	}
	OK(c, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, apperr.Unauthenticated("邮箱或密码错误"))
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.Password) {
		Fail(c, apperr.Unauthenticated("邮箱或密码错误"))
		return
	}
	if !user.IsActive {
		Fail(c, apperr.InvalidState("用户未激活"))
		return
	}

	tokens, err := h.issueTokens(user.Email)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		Fail(c, apperr.InvalidInput("refresh token不能为空"))
		return
	}

	email, err := h.tokens.ParseToken(req.RefreshToken)
	if err != nil {
		Fail(c, apperr.Unauthenticated("无效的refresh token"))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		Fail(c, apperr.NotFound("用户不存在"))
		return
	}
	if !user.IsActive {
		Fail(c, apperr.InvalidState("用户未激活"))
		return
	}

	// 轮换：签发新的 access + refresh，旧 refresh token 不撤销
	tokens, err := h.issueTokens(user.Email)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, tokens)
}

func (h *AuthHandler) issueTokens(email string) (*tokenResponse, error) {
	accessToken, err := h.tokens.GenerateAccessToken(email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.tokens.GenerateRefreshToken(email)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
	}, nil
}
