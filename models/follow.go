package models

import (
	"context"
	"time"

	"yatube/db"

	"gorm.io/gorm/clause"
)

// Follow is a directed edge: User receives Author's posts in the follow feed.
// idx_follow_pair = (user_id, author_id) keeps edges unique.
type Follow struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint64 `gorm:"not null;index:idx_follow_pair,unique"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint64 `gorm:"not null;index:idx_follow_pair,unique;index:idx_follow_author"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FollowCreate is idempotent: following twice doesn't fail and leaves a single edge
func FollowCreate(ctx context.Context, userID, authorID uint64) error {
	if userID == authorID {
		return ErrFollowSelf
	}
	return db.Instance.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Follow{UserID: userID, AuthorID: authorID}).Error
}

// FollowDelete is a no-op when there is no such edge
func FollowDelete(ctx context.Context, userID, authorID uint64) error {
	return db.Instance.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&Follow{}).Error
}

// IsFollowing is always false for anonymous users (nil)
func IsFollowing(ctx context.Context, user *User, authorID uint64) (bool, error) {
	if user == nil {
		return false, nil
	}
	var count int64
	err := db.Instance.WithContext(ctx).
		Model(&Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, authorID).
		Count(&count).Error
	return count > 0, err
}

func FollowerCount(ctx context.Context, authorID uint64) (count int64, err error) {
	err = db.Instance.WithContext(ctx).Model(&Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return
}

func FollowingCount(ctx context.Context, userID uint64) (count int64, err error) {
	err = db.Instance.WithContext(ctx).Model(&Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return
}
