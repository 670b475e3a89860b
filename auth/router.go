package auth

import (
	"net/http"
	"net/url"
	"strings"

	"yatube/config"
	"yatube/models"

	"github.com/gin-gonic/gin"
)

// User is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds auth checks + User pre-loading.
// Anonymous visitors of protected routes are sent to the login page.
type Router struct {
	Base gin.IRouter
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Permission) {
	user := CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.RequestURI()))
		return
	}
	if !user.HasPermissions(required) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

// Handle registers the same protected handler for GET and POST (forms)
func (cr *Router) Handle(path string, handler HandlerFunc, required ...models.Permission) {
	cr.GET(path, handler, required...)
	cr.POST(path, handler, required...)
}

// PublicGET passes the user when there is one and nil otherwise
func (cr *Router) PublicGET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		handler(c, CurrentUser(c))
	})
}

// PublicHandle is PublicGET for both GET and POST, used by the login and signup forms
func (cr *Router) PublicHandle(path string, handler HandlerFunc) {
	cr.PublicGET(path, handler)
	cr.Base.POST(path, func(c *gin.Context) {
		handler(c, CurrentUser(c))
	})
}

// LoginRedirectURL is LOGIN_URL with the requested location in "next", slashes left readable
func LoginRedirectURL(next string) string {
	return config.LOGIN_URL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext only lets through local paths, anything else becomes "/"
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// CanEdit reports whether user may change the post
func CanEdit(user *models.User, post *models.Post) bool {
	return user != nil && post != nil && user.ID != 0 && user.ID == post.AuthorID
}
