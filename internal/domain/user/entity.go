package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码只保存bcrypt哈希值，不对外序列化
// 2. ID创建后不可修改，名称和邮箱可通过资料编辑修改
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt哈希值
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(id, name, email, hashedPassword string, now time.Time) *User {
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateProfile 更新名称和邮箱（领域行为）
func (u *User) UpdateProfile(name, email string, now time.Time) {
	u.Name = name
	u.Email = email
	if now.After(u.UpdatedAt) {
		u.UpdatedAt = now
	}
}

// Clone 返回副本
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
