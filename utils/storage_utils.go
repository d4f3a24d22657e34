package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Uploader stores images in an S3-compatible bucket and returns their
// public URL.
type S3Uploader struct {
	client        s3iface.S3API
	bucket        string
	publicBaseURL string
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return NewS3UploaderWithClient(s3.New(sess), cfg), nil
}

func NewS3UploaderWithClient(client s3iface.S3API, cfg S3Config) *S3Uploader {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Uploader{client: client, bucket: cfg.Bucket, publicBaseURL: base}
}

// Upload stores data under folder with a random name. The content type and
// extension come from the bytes themselves.
func (u *S3Uploader) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	mt := mimetype.Detect(data)
	key := path.Join(folder, uuid.NewString()+mt.Extension())

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mt.String()),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}
	return u.publicBaseURL + "/" + key, nil
}

// rasterTypes are the image formats accepted for upload. Vector formats such
// as SVG can carry script and are served from a public bucket, so they stay out.
var rasterTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/heic",
	"image/heif",
	"image/avif",
	"image/bmp",
	"image/tiff",
}

// IsImage reports whether data sniffs as a raster image.
func IsImage(data []byte) bool {
	mt := mimetype.Detect(data)
	for _, t := range rasterTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}
