package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fleet_tracker/internal/metrics"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/service"
	"fleet_tracker/internal/utils"
)

// ContextUserKey 驗證通過後目前使用者存放在 gin.Context 的 key
const ContextUserKey = "user"

// Authenticator 驗證 access token 並回傳有效的使用者
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 access token
// WebSocket 連線無法自訂標頭時，可改用 ?token= 帶入
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && websocket.IsWebSocketUpgrade(c.Request) {
			token = c.Query("token")
		}
		if token == "" {
			reject(c, http.StatusUnauthorized, "missing", "Access token required")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, utils.ErrTokenExpired):
			reject(c, http.StatusUnauthorized, "expired", "Token expired")
			return
		case errors.Is(err, utils.ErrTokenInvalid):
			reject(c, http.StatusUnauthorized, "invalid", "Invalid token")
			return
		case errors.Is(err, service.ErrInactiveUser):
			reject(c, http.StatusUnauthorized, "inactive", "User not found or inactive")
			return
		default:
			_ = c.Error(err)
			reject(c, http.StatusInternalServerError, "error", "Authentication error")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole 只允許指定角色的使用者通過，需放在 AuthMiddleware 之後
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			reject(c, http.StatusUnauthorized, "missing", "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		reject(c, http.StatusForbidden, "forbidden", "Insufficient permissions")
	}
}

// CurrentUser 取得已驗證的使用者，未經過 AuthMiddleware 時回傳 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(c *gin.Context, status int, reason, message string) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
