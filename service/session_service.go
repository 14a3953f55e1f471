package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
	"gorm.io/gorm"
)

const (
	// 默认会话有效期
	defaultSessionTTL = 7 * 24 * time.Hour

	sessionIDPrefix = "sess_"
)

// SessionService 会话权威：签发、解析、注销。
// 会话是不透明随机 ID，所有状态都在数据库里。
type SessionService struct {
	*Service
	cache *SessionCache
}

func NewSessionService(s *Service) *SessionService {
	return &SessionService{Service: s, cache: NewSessionCache(s.RDB)}
}

// GenerateSessionID 32 字节随机数 hex，带 sess_ 前缀
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return sessionIDPrefix + hex.EncodeToString(b), nil
}

// CreateSession 为用户签发新会话
func (s *SessionService) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	sid, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}
	now := s.Now()
	sess := &models.Session{
		ID:        sid,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL()),
		CreatedAt: now,
	}
	if err := repository.NewSessionDAO(s.db(ctx)).Create(sess); err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, sid, userID, sess.ExpiresAt, now); err != nil {
		logger.Warningf("session cache put failed: %v", err)
	}
	return sess, nil
}

// ResolveSession 解析会话得到当前用户。
// 以下情况一律返回 ErrSessionNotFound：sid 为空、会话不存在或已过期、用户不存在、已删除、已停用。
// 只读：不续期、不清理过期行。
func (s *SessionService) ResolveSession(ctx context.Context, sid string) (*models.User, error) {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return nil, ErrSessionNotFound
	}

	now := s.Now()
	userID, expiresAt, state, err := s.cache.Get(ctx, sid)
	if err != nil {
		logger.Warningf("session cache get failed: %v", err)
	}
	switch {
	case state == CacheRevoked:
		return nil, ErrSessionNotFound
	case state == CacheHit && !expiresAt.After(now):
		return nil, ErrSessionNotFound
	case state == CacheMiss:
		sess, err := repository.NewSessionDAO(s.db(ctx)).FindByID(sid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSessionNotFound
			}
			return nil, err
		}
		if !sess.ExpiresAt.After(now) {
			return nil, ErrSessionNotFound
		}
		userID = sess.UserID
		if err := s.cache.Put(ctx, sid, userID, sess.ExpiresAt, now); err != nil {
			logger.Warningf("session cache put failed: %v", err)
		}
	}

	user, err := models.NewUserDAO(s.db(ctx)).FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !user.CanAuthenticate() {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// RevokeSession 注销单个会话，幂等。
// 先删行再写注销标记：并发解析即使已读到旧行，也无法再把它写回缓存。
func (s *SessionService) RevokeSession(ctx context.Context, sid string) error {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return nil
	}
	dao := repository.NewSessionDAO(s.db(ctx))
	sess, err := dao.FindByID(sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 行不存在：缓存里最多只剩注销标记或已过期条目
		return nil
	}
	if err != nil {
		return err
	}
	if err := dao.Delete(sid); err != nil {
		return err
	}
	if err := s.cache.MarkRevoked(ctx, sess.ExpiresAt.Sub(s.Now()), sid); err != nil {
		logger.Warningf("session cache revoke failed: %v", err)
	}
	return nil
}

// RevokeAllForUser 注销用户全部会话（删除/彻底删除用户时调用）
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.revokeAllForUser(ctx, s.db(ctx), userID)
}

// revokeAllForUser 可在事务中执行
func (s *SessionService) revokeAllForUser(ctx context.Context, db *gorm.DB, userID string) error {
	dao := repository.NewSessionDAO(db)
	sessions, err := dao.ListByUser(userID)
	if err != nil {
		return err
	}
	if err := dao.DeleteByUser(userID); err != nil {
		return err
	}
	now := s.Now()
	for i := range sessions {
		if err := s.cache.MarkRevoked(ctx, sessions[i].ExpiresAt.Sub(now), sessions[i].ID); err != nil {
			logger.Warningf("session cache revoke failed: %v", err)
		}
	}
	return nil
}

// SweepExpired 清理过期会话，返回删除条数
func (s *SessionService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return repository.NewSessionDAO(s.db(ctx)).DeleteExpired(now)
}
