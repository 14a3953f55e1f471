package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
)

// SessionCookieName 会话 cookie 名
const SessionCookieName = "sid"

// AuthService 提供“鉴权核心能力”，供中间件/WS 握手使用。
// - 从 cookie 中取会话 ID
// - 会话 -> 当前用户
// - 生成/清除会话 cookie
//
// Gin 中间件作为单独适配层，内部调用该 service。
type AuthService struct {
	sessions *SessionService
}

func NewAuthService(sessions *SessionService) *AuthService {
	return &AuthService{sessions: sessions}
}

// ExtractSessionID 从请求 cookie 中取 sid
func (a *AuthService) ExtractSessionID(r *http.Request) string {
	if r == nil {
		return ""
	}
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// Authenticate 根据 sid 获取当前用户
func (a *AuthService) Authenticate(ctx context.Context, sid string) (*models.User, error) {
	return a.sessions.ResolveSession(ctx, sid)
}

// AuthenticateRequest 从请求里抽 sid 并鉴权
func (a *AuthService) AuthenticateRequest(ctx context.Context, r *http.Request) (*models.User, string, error) {
	sid := a.ExtractSessionID(r)
	u, err := a.Authenticate(ctx, sid)
	return u, sid, err
}

// IsSecureRequest TLS 直连或反向代理声明 https
func IsSecureRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}

// SessionCookie 会话 cookie：HttpOnly、SameSite=Lax、Path=/，过期时间与会话一致。
// cookie 在签发时下发，MaxAge 取会话总时长；CreatedAt 与 ExpiresAt 出自同一时钟。
func SessionCookie(sess *models.Session, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !sess.CreatedAt.IsZero() {
		if lifetime := int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds()); lifetime > 0 {
			c.MaxAge = lifetime
		}
	}
	return c
}

// ClearSessionCookie 立即过期的同名 cookie
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
