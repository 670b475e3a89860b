package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	oldPerPage, oldDebug, oldBackend := POSTS_PER_PAGE, DEBUG_MODE, CACHE_BACKEND
	t.Cleanup(func() {
		POSTS_PER_PAGE, DEBUG_MODE, CACHE_BACKEND = oldPerPage, oldDebug, oldBackend
	})

	t.Setenv("POSTS_PER_PAGE", "25")
	t.Setenv("DEBUG_MODE", "off")
	t.Setenv("CACHE_BACKEND", "redis")
	Load()

	assert.Equal(t, 25, POSTS_PER_PAGE)
	assert.False(t, DEBUG_MODE)
	assert.Equal(t, "redis", CACHE_BACKEND)
}

func TestLoadKeepsDefaultsOnGarbage(t *testing.T) {
	old := POSTS_PER_PAGE
	t.Cleanup(func() { POSTS_PER_PAGE = old })

	POSTS_PER_PAGE = 10
	t.Setenv("POSTS_PER_PAGE", "lots")
	Load()
	assert.Equal(t, 10, POSTS_PER_PAGE)

	t.Setenv("POSTS_PER_PAGE", "-3")
	Load()
	assert.Equal(t, 10, POSTS_PER_PAGE, "non-positive page size falls back to 10")
}
