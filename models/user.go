package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"yatube/db"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is lowered by tests
var PasswordCost = bcrypt.DefaultCost

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	Username  string  `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName string  `gorm:"type:varchar(150)"`
	LastName  string  `gorm:"type:varchar(150)"`
	Email     string  `gorm:"type:varchar(254)"`
	Password  string  `gorm:"type:varchar(100)"`
	Grants    []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (u User) String() string {
	return u.Username
}

// DisplayName is the full name when known, the username otherwise
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

func UserCreate(ctx context.Context, username, firstName, lastName, email, plainTextPassword string) (u User, err error) {
	var count int64
	if err = db.Instance.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return
	}
	if count > 0 {
		return u, ErrUsernameTaken
	}
	u.Username = username
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	if err = u.SetPassword(plainTextPassword); err != nil {
		return
	}
	return u, db.Instance.WithContext(ctx).Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func UserLogin(ctx context.Context, username, plainTextPassword string) (u User, err error) {
	u, err = UserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	} else if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func UserByUsername(ctx context.Context, username string) (u User, err error) {
	err = db.Instance.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return u, notFound(err)
}

// UserByID loads the user together with the permission grants
func UserByID(ctx context.Context, id uint64) (u User, err error) {
	err = db.Instance.WithContext(ctx).Preload("Grants").First(&u, id).Error
	return u, notFound(err)
}

func (u *User) HasPermission(required Permission) bool {
	for _, grant := range u.Grants {
		if grant.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}
