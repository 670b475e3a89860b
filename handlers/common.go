package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"yatube/auth"
	"yatube/logger"
	"yatube/models"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined responses
	OKResponse      = Response{}
	DBErrorResponse = Response{"DB Error"}
)

// render adds the viewer to the template data
func render(c *gin.Context, status int, name string, user *models.User, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = user
	c.HTML(status, name, data)
}

func NotFound(c *gin.Context, user *models.User) {
	render(c, http.StatusNotFound, "404.tmpl", user, gin.H{
		"title": "Page not found",
		"path":  c.Request.URL.Path,
	})
}

// NoRoute is the 404 page for unknown URLs
func NoRoute(c *gin.Context) {
	NotFound(c, auth.CurrentUser(c))
}

func serverError(c *gin.Context, user *models.User, err error) {
	logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	render(c, http.StatusInternalServerError, "500.tmpl", user, gin.H{"title": "Server error"})
}

// lookupError renders 404 for missing objects and 500 for everything else
func lookupError(c *gin.Context, user *models.User, err error) {
	if errors.Is(err, models.ErrNotFound) {
		NotFound(c, user)
		return
	}
	serverError(c, user, err)
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}
