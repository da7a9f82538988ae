package service

import (
	"errors"
	"time"

	"blogs/internal/apperr"
	"blogs/internal/auth"
	"blogs/internal/metrics"
	"blogs/internal/models"

	"gorm.io/gorm"
)

// UserService 封装凭据存储与登录、登出流程。
type UserService struct {
	db       *gorm.DB
	sessions *SessionStore
	now      func() time.Time
}

func NewUserService(db *gorm.DB, sessions *SessionStore) *UserService {
	return &UserService{db: db, sessions: sessions, now: time.Now}
}

// CreateUser 校验用户名后写入用户；主键冲突转换为 ErrUsernameTaken。
func (s *UserService) CreateUser(username, password string) (*models.User, error) {
	if !auth.ValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperr.Validation("password is too long")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindHashing, "failed to hash password", err)
	}
	now := s.now().UTC()
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		JoinedDate:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, apperr.Storage("create user", err)
	}
	return &user, nil
}

// GetUser 按用户名查询用户。
func (s *UserService) GetUser(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Storage("query user", err)
	}
	return &user, nil
}

// VerifyPassword 用户不存在返回 ErrUserNotFound，密码不匹配返回 false。
func (s *UserService) VerifyPassword(username, password string) (bool, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return false, err
	}
	return auth.VerifyPassword(user.PasswordHash, password), nil
}

// UpdateAvatar 只更新 avatar 一列。
func (s *UserService) UpdateAvatar(username string, avatar []byte) error {
	if len(avatar) == 0 {
		return apperr.Validation("avatar is required")
	}
	res := s.db.Model(&models.User{}).Where("username = ?", username).Update("avatar", avatar)
	if res.Error != nil {
		return apperr.Storage("update avatar", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Avatar 返回头像二进制，用户不存在或未设置头像时均为未找到。
func (s *UserService) Avatar(username string) ([]byte, error) {
	var users []models.User
	if err := s.db.Select("username", "avatar").Where("username = ?", username).Limit(1).Find(&users).Error; err != nil {
		return nil, apperr.Storage("query avatar", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	if len(users[0].Avatar) == 0 {
		return nil, ErrAvatarNotFound
	}
	return users[0].Avatar, nil
}

// LoginResult 登录成功后返回的数据。
type LoginResult struct {
	SessionID string
	User      models.User
}

// Login 校验用户名密码并签发新会话；未知用户与密码错误统一返回 ErrInvalidCredentials。
func (s *UserService) Login(username, password string) (*LoginResult, error) {
	user, err := s.GetUser(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	sid, err := s.sessions.Issue(user.Username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &LoginResult{SessionID: sid, User: *user}, nil
}

// Logout 吊销会话，重复登出不是错误。
func (s *UserService) Logout(sessionID string) error {
	return s.sessions.Revoke(sessionID)
}
