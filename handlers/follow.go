package handlers

import (
	"errors"
	"net/http"

	"yatube/config"
	"yatube/feed"
	"yatube/models"

	"github.com/gin-gonic/gin"
)

func FollowIndex(c *gin.Context, user *models.User) {
	page, err := feed.Following(c.Request.Context(), user, c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		serverError(c, user, err)
		return
	}
	render(c, http.StatusOK, "follow.tmpl", user, gin.H{
		"title": "Following",
		"page":  page,
	})
}

func ProfileFollow(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	author, err := models.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		lookupError(c, user, err)
		return
	}
	// following yourself is silently ignored
	if err = models.FollowCreate(ctx, user.ID, author.ID); err != nil && !errors.Is(err, models.ErrFollowSelf) {
		serverError(c, user, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func ProfileUnfollow(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	author, err := models.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		lookupError(c, user, err)
		return
	}
	if err = models.FollowDelete(ctx, user.ID, author.ID); err != nil {
		serverError(c, user, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
