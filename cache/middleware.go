package cache

import (
	"bytes"
	"net/http"
	"time"

	"yatube/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KeyFunc derives the cache key of a request
type KeyFunc func(c *gin.Context) string

// ByURI keys pages by the full request URI (path and query)
func ByURI(c *gin.Context) string {
	return c.Request.URL.RequestURI()
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Page serves GET requests from the store and stores successful responses for ttl.
// A zero or negative ttl disables caching.
func Page(store Store, ttl time.Duration, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		k := key(c)
		if entry, ok := store.Get(c.Request.Context(), k); ok {
			c.Data(http.StatusOK, entry.ContentType, entry.Body)
			c.Abort()
			return
		}
		w := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()
		c.Writer = w.ResponseWriter
		if w.Status() != http.StatusOK || w.body.Len() == 0 {
			return
		}
		entry := Entry{ContentType: w.Header().Get("Content-Type"), Body: w.body.Bytes()}
		if err := store.Set(c.Request.Context(), k, entry, ttl); err != nil {
			logger.Warn("page cache set failed", zap.String("key", k), zap.Error(err))
		}
	}
}
