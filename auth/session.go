package auth

import (
	"errors"
	"strconv"

	"yatube/logger"
	"yatube/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userIdKey      = "id"
	currentUserKey = "auth.user"
)

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Clear()
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

// UserID is the id stored in the session, 0 for anonymous visitors
func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}

// User loads the session user, nil when there is none or it was deleted
func (s *Session) User(c *gin.Context) *models.User {
	id := s.UserID()
	if id == 0 {
		return nil
	}
	user, err := models.UserByID(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Error("session user", zap.Uint64("id", id), zap.Error(err))
		}
		return nil
	}
	return &user
}

// CurrentUser loads the session user once per request
func CurrentUser(c *gin.Context) *models.User {
	if cached, exists := c.Get(currentUserKey); exists {
		return cached.(*models.User)
	}
	user := LoadSession(c).User(c)
	c.Set(currentUserKey, user)
	return user
}

// ViewerKey identifies who a page is rendered for, "0" for anonymous visitors
func ViewerKey(c *gin.Context) string {
	return strconv.FormatUint(LoadSession(c).UserID(), 10)
}
