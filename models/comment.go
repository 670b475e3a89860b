package models

import (
	"context"
	"time"

	"yatube/db"

	"gorm.io/gorm/clause"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	PostID    uint64    `gorm:"index;not null"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint64    `gorm:"index;not null"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text      string    `gorm:"type:text;not null"`
}

func (c Comment) String() string {
	return c.Text
}

// PostComments lists comments in the order they were written
func PostComments(ctx context.Context, postID uint64) (comments []Comment, err error) {
	err = db.Instance.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	return
}

func CreateComment(ctx context.Context, comment *Comment) error {
	return db.Instance.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}
