package middleware

import (
	"net/http"
	"strings"

	"newsapi/internal/auth"
	"newsapi/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CurrentUserKey = "current_user"

// LoadUser 解析 Authorization 头中的 Bearer token 并加载用户到上下文。
// 凭据缺失或无效时不中断请求，由 AuthRequired 决定是否拒绝。
func LoadUser(gdb *gorm.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" && strings.HasPrefix(header, "Bearer ") {
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if email, err := tokens.ParseToken(tokenString); err == nil {
				var user models.User
				if result := gdb.Where("email = ?", email).First(&user); result.Error == nil {
					c.Set(CurrentUserKey, &user)
				}
			}
		}
		c.Next()
	}
}

// AuthRequired 要求已认证且激活的用户
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CurrentUserKey)
		if !exists {
			abort(c, http.StatusUnauthorized, "未认证")
			return
		}
		if !u.(*models.User).IsActive {
			abort(c, http.StatusBadRequest, "用户未激活")
			return
		}
		c.Next()
	}
}

// AdminRequired 要求管理员角色，需在 AuthRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CurrentUserKey)
		if !exists || !u.(*models.User).IsAdmin() {
			abort(c, http.StatusForbidden, "需要管理员权限")
			return
		}
		c.Next()
	}
}

// CurrentUser 读取 LoadUser 放入上下文的用户
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CurrentUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"code": code, "message": message, "data": nil})
}
