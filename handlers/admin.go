package handlers

import (
	"net/http"

	"yatube/auth"
	"yatube/cache"
	"yatube/logger"
	"yatube/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type GroupResponse struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type FormErrorResponse struct {
	Error  string     `json:"error"`
	Fields FormErrors `json:"fields"`
}

func GroupCreate(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	form := GroupForm{}
	errs := FormErrors{}
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		errs = bindErrors(err)
	}
	if form.Slug != "" && !models.ValidSlug(form.Slug) {
		errs.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if errs.Empty() {
		if _, err := models.GroupBySlug(ctx, form.Slug); err == nil {
			errs.Add("slug", "Group with this slug already exists.")
		}
	}
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, FormErrorResponse{Error: "invalid form", Fields: errs})
		return
	}
	group := models.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := models.GroupCreate(ctx, &group); err != nil {
		logger.Error("group create", zap.Error(err))
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	logger.Info("group created", zap.Uint64("by", user.ID), zap.String("slug", group.Slug))
	c.JSON(http.StatusOK, GroupResponse{
		ID:          group.ID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	})
}

func CacheClear(store cache.Store) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		if err := store.Clear(c.Request.Context()); err != nil {
			logger.Error("page cache clear", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{"cache error"})
			return
		}
		logger.Info("page cache cleared", zap.Uint64("by", user.ID))
		c.JSON(http.StatusOK, OKResponse)
	}
}
