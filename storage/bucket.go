package storage

import (
	"strings"

	"yatube/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket describes where media lives
type Bucket struct {
	Name        string // S3 bucket name, empty for disk storage
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string // S3 compatible services
	AuthDetails string // Authentication details. In case of S3 bucket - "key:secret"
}

// BucketFromConfig picks S3 when S3_BUCKET is set and MEDIA_DIR otherwise
func BucketFromConfig() Bucket {
	if config.S3_BUCKET == "" {
		return Bucket{StorageType: StorageTypeFile, Path: config.MEDIA_DIR}
	}
	b := Bucket{
		Name:        config.S3_BUCKET,
		StorageType: StorageTypeS3,
		Path:        config.S3_PREFIX,
		Region:      config.S3_REGION,
		Endpoint:    config.S3_ENDPOINT,
	}
	if config.S3_ACCESS_KEY != "" {
		b.AuthDetails = config.S3_ACCESS_KEY + ":" + config.S3_SECRET_KEY
	}
	return b
}

func (b *Bucket) GetRemotePath(path string) string {
	path = strings.TrimLeft(path, "/")
	if b.Path == "" {
		return path
	}
	return strings.TrimRight(b.Path, "/") + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if key, secret, found := strings.Cut(b.AuthDetails, ":"); found {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	return s3.New(session.Must(session.NewSession(cfg)))
}
