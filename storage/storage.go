package storage

import (
	"fmt"
	"io"
	"net/http"

	"yatube/logger"

	"go.uber.org/zap"
)

type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	// Serve writes the object to the response (or redirects to it)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

// Default is where post images go, set by Init
var Default StorageAPI

func Init() {
	bucket := BucketFromConfig()
	storage, err := New(&bucket)
	if err != nil {
		panic(err)
	}
	logger.Info("media storage", zap.Uint8("type", uint8(bucket.StorageType)), zap.String("path", bucket.Path), zap.String("bucket", bucket.Name))
	Default = storage
}

func New(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket), nil
	}
	return nil, fmt.Errorf("storage type %d unavailable", bucket.StorageType)
}
