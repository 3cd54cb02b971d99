package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/utils"
)

// 上下文键
const (
	ContextPlayerID = "playerID"
	ContextToken    = "token"
)

// TokenValidator 令牌校验接口
type TokenValidator interface {
	ValidateToken(token string) (*utils.PlayerClaims, error)
}

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			abort(c, errors.New(errors.ErrAuthentication, "缺少认证令牌"))
			return
		}

		// 验证令牌
		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			code := errors.ErrTokenInvalid
			if err == utils.ErrExpiredToken {
				code = errors.ErrTokenExpired
			}
			abort(c, errors.Wrap(err, code))
			return
		}

		// 将玩家信息存入上下文
		c.Set(ContextPlayerID, claims.PlayerID)
		c.Set(ContextToken, token)

		c.Next()
	}
}

// extractToken 从请求中提取令牌
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// 1. 从Authorization Header获取 (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. 从X-Access-Token Header获取
	if token := c.GetHeader("X-Access-Token"); token != "" {
		return token
	}

	// 3. 从Query参数获取（浏览器WebSocket无法设置Header）
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

// GetPlayerID 从上下文获取玩家ID
func GetPlayerID(c *gin.Context) (string, bool) {
	if playerID, exists := c.Get(ContextPlayerID); exists {
		if id, ok := playerID.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// abort 以统一错误格式终止请求
func abort(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), errors.NewErrorResponse(err, c.GetString(ContextRequestID)))
}
