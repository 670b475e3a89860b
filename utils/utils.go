package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      int
	NewY      int
	OldX      int
	OldY      int
}

// CreateThumb writes a JPEG that fits in a size x size box, aspect ratio kept
func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	image, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, image, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = imageRect.X
	result.NewY = imageRect.Y

	imageRect = image.Bounds().Size()
	result.OldX = imageRect.X
	result.OldY = imageRect.Y

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}
