package service

import (
	"time"

	"blogs/internal/apperr"
	"blogs/internal/auth"
	"blogs/internal/metrics"
	"blogs/internal/models"

	"gorm.io/gorm"
)

// SessionStore 负责签发、解析与吊销不透明会话标识。
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore ttl 为 0 时会话只会因登出或重新登录而失效。
func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

// Issue 先删除该用户已有的全部会话，再写入新会话，保证单用户单会话。
// 两条语句不在同一事务内，并发登录时以后写入者为准。
func (s *SessionStore) Issue(username string) (string, error) {
	if err := s.db.Where("username = ?", username).Delete(&models.Session{}).Error; err != nil {
		return "", apperr.Storage("revoke previous sessions", err)
	}
	sess := models.Session{SessionID: auth.NewSessionID(), Username: username, CreatedAt: s.now()}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", apperr.Storage("create session", err)
	}
	metrics.SessionsIssuedTotal.Inc()
	return sess.SessionID, nil
}

// Resolve 通过 sessions→users 连接查询用户，找不到时返回 (nil, nil)。
func (s *SessionStore) Resolve(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	q := s.db.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN sessions ON sessions.username = users.username").
		Where("sessions.session_id = ?", sessionID)
	if s.ttl > 0 {
		q = q.Where("sessions.created_at > ?", s.now().Add(-s.ttl))
	}
	var users []models.User
	if err := q.Limit(1).Find(&users).Error; err != nil {
		return nil, apperr.Storage("resolve session", err)
	}
	if len(users) == 0 {
		if s.ttl > 0 {
			s.dropExpired(sessionID)
		}
		return nil, nil
	}
	return &users[0], nil
}

// dropExpired 惰性清理已过期的会话行，失败不影响本次解析结果。
func (s *SessionStore) dropExpired(sessionID string) {
	s.db.Where("session_id = ? AND created_at <= ?", sessionID, s.now().Add(-s.ttl)).Delete(&models.Session{})
}

// Revoke 删除会话，对不存在的会话同样返回成功。
func (s *SessionStore) Revoke(sessionID string) error {
	if err := s.db.Where("session_id = ?", sessionID).Delete(&models.Session{}).Error; err != nil {
		return apperr.Storage("revoke session", err)
	}
	return nil
}

// CountFor 返回某用户当前存活的会话数。
func (s *SessionStore) CountFor(username string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Session{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count sessions", err)
	}
	return n, nil
}
