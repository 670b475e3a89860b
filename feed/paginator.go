// Package feed assembles the paginated post listings: global, group, author and follow feeds.
package feed

import (
	"fmt"
	"strconv"

	"yatube/models"

	"gorm.io/gorm"
)

// Page is one page of a feed. Number is 1-indexed.
type Page struct {
	Posts    []models.Post
	Number   int
	NumPages int
	Count    int64
	Size     int
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }
func (p Page) HasOtherPages() bool { return p.NumPages > 1 }
func (p Page) PreviousNumber() int { return p.Number - 1 }
func (p Page) NextNumber() int { return p.Number + 1 }

// Pages lists every page number, used to render the page links
func (p Page) Pages() []int {
	result := make([]int, p.NumPages)
	for i := range result {
		result[i] = i + 1
	}
	return result
}

// NumPagesFor returns how many pages count items take. An empty listing still has one page.
func NumPagesFor(count int64, size int) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// PageNumber turns the raw "page" query value into a valid page number:
// anything that isn't a number is page 1, numbers out of range clamp to the last page.
func PageNumber(raw string, numPages int) int {
	number, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if number < 1 || number > numPages {
		return numPages
	}
	return number
}

// Paginate counts the posts matched by query and loads the requested page
// ordered newest first (ties broken by id). Author and group are preloaded.
func Paginate(query *gorm.DB, rawPage string, size int) (page Page, err error) {
	if size <= 0 {
		size = 10
	}
	page.Size = size
	if err = query.Session(&gorm.Session{}).Count(&page.Count).Error; err != nil {
		return page, fmt.Errorf("count posts: %w", err)
	}
	page.NumPages = NumPagesFor(page.Count, size)
	page.Number = PageNumber(rawPage, page.NumPages)
	page.Posts = []models.Post{}
	if page.Count == 0 {
		return page, nil
	}
	err = query.Session(&gorm.Session{}).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset((page.Number - 1) * size).
		Limit(size).
		Find(&page.Posts).Error
	if err != nil {
		return page, fmt.Errorf("load posts: %w", err)
	}
	return page, nil
}
