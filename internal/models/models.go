package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthStatus string

const (
	AuthStatusActive   AuthStatus = "active"
	AuthStatusInactive AuthStatus = "inactive"
	AuthStatusDeleted  AuthStatus = "deleted"
)

// Auth is the stored credential of a user. Only one non-deleted row may exist
// per UserID.
type Auth struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"                                            json:"id"`
	UserID       string     `gorm:"not null;uniqueIndex:idx_auths_user_id_live,where:status <> 'deleted'" json:"userId"`
	PasswordHash string     `gorm:"not null"                                                               json:"-"`
	Salt         string     `gorm:"not null;size:16"                                                       json:"-"`
	Status       AuthStatus `gorm:"not null;index"                                                         json:"status"`
	CreatedAt    int64      `gorm:"autoCreateTime:milli"                                                   json:"createdAt"`
	UpdatedAt    int64      `gorm:"autoUpdateTime:milli"                                                   json:"updatedAt"`
}

func (a *Auth) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type RefreshTokenStatus string

const (
	RefreshTokenStatusActive  RefreshTokenStatus = "active"
	RefreshTokenStatusDeleted RefreshTokenStatus = "deleted"
)

type RefreshToken struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string             `gorm:"index;not null"              json:"userId"`
	Token     string             `gorm:"uniqueIndex;not null"        json:"token"`
	Status    RefreshTokenStatus `gorm:"not null"                    json:"status"`
	CreatedAt int64              `gorm:"autoCreateTime:milli"        json:"createdAt"`
	UpdatedAt int64              `gorm:"autoUpdateTime:milli"        json:"updatedAt"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
