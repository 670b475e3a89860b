package models

import (
	"context"

	"yatube/db"

	"gorm.io/gorm/clause"
)

type Permission uint8

const (
	PermissionNone  Permission = 0
	PermissionAdmin Permission = 1 // manages groups and the page cache
)

type Grant struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	GrantorID  *uint64
	UserID     uint64     `gorm:"index:user_permission,unique"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Permission Permission `gorm:"index:user_permission,unique"`
}

// GrantPermission is idempotent
func GrantPermission(ctx context.Context, userID uint64, permission Permission) error {
	return db.Instance.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Grant{UserID: userID, Permission: permission}).Error
}
