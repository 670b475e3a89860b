package models

import (
	"errors"
	"fmt"

	"yatube/db"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
)

func Init() error {
	for _, model := range []any{&User{}, &Grant{}, &Group{}, &Post{}, &Comment{}, &Follow{}} {
		if err := db.Instance.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", model, err)
		}
	}
	return nil
}

// notFound maps gorm's lookup error to ErrNotFound, other errors pass through
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
