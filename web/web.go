package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"yatube/storage"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const MediaPrefix = "/media/"

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"linebreaksbr": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
	"media": func(path string) string {
		return MediaPrefix + strings.TrimLeft(path, "/")
	},
}

// Templates parses every page, pages include the partials from base.tmpl
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl"))
}

// Media serves uploaded images from the default storage
func Media(c *gin.Context) {
	path := strings.TrimLeft(c.Param("path"), "/")
	if path == "" || storage.Default == nil {
		c.Status(http.StatusNotFound)
		return
	}
	storage.Default.Serve(path, c.Request, c.Writer)
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /auth/\nDisallow: /admin/\n")
}
