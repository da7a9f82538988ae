package models

import "time"

// User 以用户名为主键，密码哈希与头像二进制永不直接序列化。
type User struct {
	Username     string    `gorm:"primaryKey;size:64" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       []byte    `json:"-"`
	JoinedDate   time.Time `gorm:"not null" json:"joined"`
}

type Session struct {
	SessionID string    `gorm:"primaryKey;size:64"`
	Username  string    `gorm:"index;size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
	User      *User     `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
	Image     []byte
	Username  string `gorm:"index;size:64;not null"`
	User      *User  `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
}
