package models

import (
	"context"
	"time"

	"yatube/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postStringLimit is how much of the text String() shows
const postStringLimit = 15

type Post struct {
	ID        uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create;index"`
	Text      string    `gorm:"type:text;not null"`
	GroupID   *uint64   `gorm:"index"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	AuthorID  uint64    `gorm:"index;not null"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Image     string    `gorm:"type:varchar(300)"` // storage path, empty when there is no image
	Thumb     string    `gorm:"type:varchar(300)"`
}

func (p Post) String() string {
	text := []rune(p.Text)
	if len(text) > postStringLimit {
		return string(text[:postStringLimit])
	}
	return p.Text
}

// AllPosts, GroupPosts, AuthorPosts and FollowedPosts return unordered scopes,
// ordering and preloading are up to the paginator.
func AllPosts(ctx context.Context) *gorm.DB {
	return db.Instance.WithContext(ctx).Model(&Post{})
}

func GroupPosts(ctx context.Context, groupID uint64) *gorm.DB {
	return AllPosts(ctx).Where("posts.group_id = ?", groupID)
}

func AuthorPosts(ctx context.Context, authorID uint64) *gorm.DB {
	return AllPosts(ctx).Where("posts.author_id = ?", authorID)
}

// FollowedPosts are the posts of every author userID follows
func FollowedPosts(ctx context.Context, userID uint64) *gorm.DB {
	authors := db.Instance.Model(&Follow{}).Select("author_id").Where("user_id = ?", userID)
	return AllPosts(ctx).Where("posts.author_id IN (?)", authors)
}

func PostByID(ctx context.Context, id uint64) (post Post, err error) {
	err = db.Instance.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error
	return post, notFound(err)
}

func CreatePost(ctx context.Context, post *Post) error {
	return db.Instance.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// UpdatePost saves the editable fields only, author and creation time never change
func UpdatePost(ctx context.Context, post *Post) error {
	return db.Instance.WithContext(ctx).Model(&Post{ID: post.ID}).Updates(map[string]any{
		"text":     post.Text,
		"group_id": post.GroupID,
		"image":    post.Image,
		"thumb":    post.Thumb,
	}).Error
}

func PostCount(ctx context.Context) (count int64, err error) {
	err = db.Instance.WithContext(ctx).Model(&Post{}).Count(&count).Error
	return
}
