package utils

import (
	"time"

	"yatube/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger replaces gin's default access log
func RequestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.Int("status", c.Writer.Status()),
		zap.Int("size", c.Writer.Size()),
		zap.String("ip", c.ClientIP()),
		zap.Duration("latency", time.Since(start)),
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("errors", c.Errors.String()))
	}
	switch status := c.Writer.Status(); {
	case status >= 500:
		logger.Error("request", fields...)
	case status >= 400:
		logger.Warn("request", fields...)
	default:
		logger.Info("request", fields...)
	}
}
