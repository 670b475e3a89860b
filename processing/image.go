package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"yatube/logger"
	"yatube/storage"
	"yatube/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PostsLocation  = "posts"
	ThumbsLocation = "thumbs"
	// MaxImageSize is the largest upload accepted, in bytes
	MaxImageSize = 10 << 20
)

var (
	ErrNotImage      = errors.New("not a valid image")
	ErrImageTooLarge = errors.New("the image is too large")

	unsafeChars = regexp.MustCompile(`[^-a-zA-Z0-9_.]+`)
)

type Image struct {
	Path   string
	Thumb  string // empty when the thumbnail could not be made
	Format string
	Width  int
	Height int
}

// cleanName keeps a recognisable, filesystem safe version of the uploaded name
func cleanName(name string) string {
	name = unsafeChars.ReplaceAllString(filepath.Base(strings.ReplaceAll(name, "\\", "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// SaveImage checks that the upload decodes as an image, stores it under posts/
// and puts a JPEG thumbnail of thumbSize pixels under thumbs/
func SaveImage(store storage.StorageAPI, name string, reader io.Reader, thumbSize uint) (result Image, err error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(reader, MaxImageSize+1))
	if err != nil {
		return result, fmt.Errorf("read upload: %w", err)
	}
	if n > MaxImageSize {
		return result, ErrImageTooLarge
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return result, ErrNotImage
	}
	result.Format = format
	result.Width = cfg.Width
	result.Height = cfg.Height

	id := uuid.NewString()
	result.Path = PostsLocation + "/" + id + "_" + cleanName(name)
	if _, err = store.Save(result.Path, bytes.NewReader(buf.Bytes())); err != nil {
		return result, fmt.Errorf("save %s: %w", result.Path, err)
	}

	var thumb bytes.Buffer
	if _, err := utils.CreateThumb(thumbSize, bytes.NewReader(buf.Bytes()), &thumb); err != nil {
		logger.Warn("thumbnail", zap.String("path", result.Path), zap.Error(err))
		return result, nil
	}
	thumbPath := ThumbsLocation + "/" + id + ".jpg"
	if _, err := store.Save(thumbPath, &thumb); err != nil {
		logger.Warn("thumbnail save", zap.String("path", thumbPath), zap.Error(err))
		return result, nil
	}
	result.Thumb = thumbPath
	return result, nil
}

// DeleteImages removes stored files, failures are only logged
func DeleteImages(store storage.StorageAPI, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := store.Delete(path); err != nil {
			logger.Warn("delete image", zap.String("path", path), zap.Error(err))
		}
	}
}
