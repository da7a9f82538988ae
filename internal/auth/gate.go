package auth

import (
	"blogs/internal/apperr"
	"blogs/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// SessionResolver 将会话标识解析为用户；不存在时返回 (nil, nil)。
type SessionResolver interface {
	Resolve(sessionID string) (*models.User, error)
}

// Gate 负责认证（会话 → 用户）与所有权校验。
type Gate struct {
	sessions   SessionResolver
	cookieName string
}

func NewGate(sessions SessionResolver, cookieName string) *Gate {
	return &Gate{sessions: sessions, cookieName: cookieName}
}

func (g *Gate) CookieName() string { return g.cookieName }

// Authenticate 未携带或无法解析的会话一律视为未认证。
func (g *Gate) Authenticate(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, apperr.Unauthenticated("not logged in")
	}
	user, err := g.sessions.Resolve(sessionID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthenticated("invalid session")
	}
	return user, nil
}

// AuthorizeOwnership 仅当当前用户就是资源所有者时放行。
func AuthorizeOwnership(user *models.User, owner string) error {
	if user == nil || user.Username != owner {
		return apperr.Forbidden("not allowed to modify another user's resource")
	}
	return nil
}

// Required 返回要求登录的 gin 中间件，失败时按错误分类中止请求。
func (g *Gate) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(g.cookieName)
		user, err := g.Authenticate(sid)
		if err != nil {
			kind := apperr.KindOf(err)
			c.AbortWithStatusJSON(kind.Status(), gin.H{"error": kind.String(), "message": apperr.Message(err)})
			return
		}
		c.Set(userKey, user)
		c.Set("sessionID", sid)
		c.Next()
	}
}

// CurrentUser 返回 Required 中间件写入的用户，未经过中间件时为 nil。
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok2 := v.(*models.User); ok2 {
			return u
		}
	}
	return nil
}

func SessionID(c *gin.Context) string {
	return c.GetString("sessionID")
}
