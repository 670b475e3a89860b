package feed

import (
	"context"

	"yatube/models"
)

func Global(ctx context.Context, rawPage string, size int) (Page, error) {
	return Paginate(models.AllPosts(ctx), rawPage, size)
}

func Group(ctx context.Context, group *models.Group, rawPage string, size int) (Page, error) {
	return Paginate(models.GroupPosts(ctx, group.ID), rawPage, size)
}

func Author(ctx context.Context, author *models.User, rawPage string, size int) (Page, error) {
	return Paginate(models.AuthorPosts(ctx, author.ID), rawPage, size)
}

// Following is the union of the posts of every author user follows
func Following(ctx context.Context, user *models.User, rawPage string, size int) (Page, error) {
	return Paginate(models.FollowedPosts(ctx, user.ID), rawPage, size)
}
