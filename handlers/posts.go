package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"yatube/auth"
	"yatube/config"
	"yatube/feed"
	"yatube/models"
	"yatube/processing"
	"yatube/storage"

	"github.com/gin-gonic/gin"
)

func Index(c *gin.Context, user *models.User) {
	page, err := feed.Global(c.Request.Context(), c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		serverError(c, user, err)
		return
	}
	render(c, http.StatusOK, "index.tmpl", user, gin.H{
		"title": "Latest updates",
		"page":  page,
	})
}

func GroupPosts(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	group, err := models.GroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		lookupError(c, user, err)
		return
	}
	page, err := feed.Group(ctx, &group, c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		serverError(c, user, err)
		return
	}
	render(c, http.StatusOK, "group_list.tmpl", user, gin.H{
		"title": group.Title,
		"group": group,
		"page":  page,
	})
}

func Profile(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	author, err := models.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		lookupError(c, user, err)
		return
	}
	page, err := feed.Author(ctx, &author, c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		serverError(c, user, err)
		return
	}
	following, err := models.IsFollowing(ctx, user, author.ID)
	if err != nil {
		serverError(c, user, err)
		return
	}
	followers, err := models.FollowerCount(ctx, author.ID)
	if err != nil {
		serverError(c, user, err)
		return
	}
	followingCount, err := models.FollowingCount(ctx, author.ID)
	if err != nil {
		serverError(c, user, err)
		return
	}
	render(c, http.StatusOK, "profile.tmpl", user, gin.H{
		"title":           "Profile of " + author.DisplayName(),
		"author":          &author,
		"page":            page,
		"following":       following,
		"followers":       followers,
		"following_count": followingCount,
	})
}

func PostDetail(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c, user)
		return
	}
	post, err := models.PostByID(ctx, id)
	if err != nil {
		lookupError(c, user, err)
		return
	}
	comments, err := models.PostComments(ctx, post.ID)
	if err != nil {
		serverError(c, user, err)
		return
	}
	render(c, http.StatusOK, "post_detail.tmpl", user, gin.H{
		"title":    "Post " + post.String(),
		"post":     &post,
		"comments": comments,
		"can_edit": auth.CanEdit(user, &post),
	})
}

func PostCreate(c *gin.Context, user *models.User) {
	form := PostForm{}
	errs := FormErrors{}
	if c.Request.Method == http.MethodPost {
		errs = bindForm(c, &form)
		post := models.Post{AuthorID: user.ID}
		if err := applyPostForm(c, &form, &post, errs); err != nil {
			serverError(c, user, err)
			return
		}
		if errs.Empty() {
			if err := models.CreatePost(c.Request.Context(), &post); err != nil {
				processing.DeleteImages(storage.Default, post.Image, post.Thumb)
				serverError(c, user, err)
				return
			}
			c.Redirect(http.StatusFound, profileURL(user.Username))
			return
		}
	}
	renderPostForm(c, user, form, errs, false)
}

func PostEdit(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c, user)
		return
	}
	post, err := models.PostByID(ctx, id)
	if err != nil {
		lookupError(c, user, err)
		return
	}
	if !auth.CanEdit(user, &post) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}
	form := PostForm{Text: post.Text, Image: post.Image}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(*post.GroupID, 10)
	}
	errs := FormErrors{}
	if c.Request.Method == http.MethodPost {
		errs = bindForm(c, &form)
		oldImage, oldThumb := post.Image, post.Thumb
		if err = applyPostForm(c, &form, &post, errs); err != nil {
			serverError(c, user, err)
			return
		}
		if errs.Empty() {
			if err = models.UpdatePost(ctx, &post); err != nil {
				serverError(c, user, err)
				return
			}
			if post.Image != oldImage {
				processing.DeleteImages(storage.Default, oldImage, oldThumb)
			}
			c.Redirect(http.StatusFound, postURL(post.ID))
			return
		}
	}
	renderPostForm(c, user, form, errs, true)
}

// applyPostForm validates the submitted form and copies it into post.
// A new image is only stored once everything else is valid.
func applyPostForm(c *gin.Context, form *PostForm, post *models.Post, errs FormErrors) error {
	requireText(errs, "text", &form.Text)
	post.Text = form.Text

	post.GroupID = nil
	if form.Group != "" {
		groupID, err := strconv.ParseUint(form.Group, 10, 64)
		if err != nil {
			errs.Add("group", msgInvalidChoice)
		} else if group, err := models.GroupByID(c.Request.Context(), groupID); errors.Is(err, models.ErrNotFound) {
			errs.Add("group", msgInvalidChoice)
		} else if err != nil {
			return err
		} else {
			post.GroupID = &group.ID
		}
	}

	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil
	} else if err != nil {
		errs.Add("image", "The submitted data was not a file.")
		return nil
	}
	if !errs.Empty() {
		return nil
	}
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer reader.Close()
	img, err := processing.SaveImage(storage.Default, file.Filename, reader, uint(config.THUMB_SIZE))
	if errors.Is(err, processing.ErrNotImage) {
		errs.Add("image", msgInvalidImage)
		return nil
	} else if errors.Is(err, processing.ErrImageTooLarge) {
		errs.Add("image", fmt.Sprintf("Ensure the image is at most %d MB.", processing.MaxImageSize>>20))
		return nil
	} else if err != nil {
		return err
	}
	post.Image = img.Path
	post.Thumb = img.Thumb
	form.Image = img.Path
	return nil
}

func renderPostForm(c *gin.Context, user *models.User, form PostForm, errs FormErrors, isEdit bool) {
	groups, err := models.ListGroups(c.Request.Context())
	if err != nil {
		serverError(c, user, err)
		return
	}
	title := "New post"
	if isEdit {
		title = "Edit post"
	}
	render(c, http.StatusOK, "create_post.tmpl", user, gin.H{
		"title":   title,
		"form":    form,
		"errors":  errs,
		"groups":  groups,
		"is_edit": isEdit,
	})
}

func AddComment(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c, user)
		return
	}
	post, err := models.PostByID(ctx, id)
	if err != nil {
		lookupError(c, user, err)
		return
	}
	form := CommentForm{}
	errs := bindForm(c, &form)
	requireText(errs, "text", &form.Text)
	if errs.Empty() {
		comment := models.Comment{PostID: post.ID, AuthorID: user.ID, Text: form.Text}
		if err = models.CreateComment(ctx, &comment); err != nil {
			serverError(c, user, err)
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}
