package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"revive/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of *s3.Client used for image hosting.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ImageStorage stores campaign and profile images in one S3 bucket and hands
// back publicly reachable URLs.
type ImageStorage struct {
	client     ObjectAPI
	bucketName string
	publicBase string
}

func NewImageStorage(client ObjectAPI, bucketName, publicBase string) *ImageStorage {
	publicBase = strings.TrimSuffix(publicBase, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", bucketName)
	}

	return &ImageStorage{
		client:     client,
		bucketName: bucketName,
		publicBase: publicBase,
	}
}

// Key builds an object key under owner's prefix keeping the upload's
// extension.
func Key(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("images/%s/%s%s", ownerID, utils.NanoID(), ext)
}

// UploadFile writes body to key and returns the storage key on success.
func (s *ImageStorage) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return key, nil
}

func (s *ImageStorage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return utils.ErrorWrapOrNil(err, "failed to delete "+key)
}

func (s *ImageStorage) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimPrefix(key, "/")
}
