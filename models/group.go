package models

import (
	"context"
	"regexp"

	"yatube/db"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

func (g Group) String() string {
	return g.Title
}

func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

func GroupBySlug(ctx context.Context, slug string) (g Group, err error) {
	err = db.Instance.WithContext(ctx).Where("slug = ?", slug).First(&g).Error
	return g, notFound(err)
}

func GroupByID(ctx context.Context, id uint64) (g Group, err error) {
	err = db.Instance.WithContext(ctx).First(&g, id).Error
	return g, notFound(err)
}

// ListGroups is used by the post form's group selector
func ListGroups(ctx context.Context) (groups []Group, err error) {
	err = db.Instance.WithContext(ctx).Order("title").Find(&groups).Error
	return
}

func GroupCreate(ctx context.Context, g *Group) error {
	return db.Instance.WithContext(ctx).Create(g).Error
}
