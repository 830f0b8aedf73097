package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjects struct {
	puts    map[string]string
	deleted []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.puts[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, f.err
}

func TestUploadFile(t *testing.T) {
	objects := &fakeObjects{puts: map[string]string{}}
	store := NewImageStorage(objects, "revive-images", "https://cdn.example.org/")

	key, err := store.UploadFile(context.Background(), "images/u1/a.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if objects.puts["revive-images/images/u1/a.png"] != "png-bytes" {
		t.Fatalf("expected object to be written, got %v", objects.puts)
	}
	if got := store.PublicURL(key); got != "https://cdn.example.org/images/u1/a.png" {
		t.Fatalf("unexpected public url %s", got)
	}

	if err := store.DeleteFile(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != key {
		t.Fatalf("expected %s to be deleted, got %v", key, objects.deleted)
	}
}

func TestUploadFileError(t *testing.T) {
	objects := &fakeObjects{puts: map[string]string{}, err: errors.New("denied")}
	store := NewImageStorage(objects, "bucket", "")

	if _, err := store.UploadFile(context.Background(), "k", strings.NewReader(""), "image/png"); err == nil {
		t.Fatalf("expected error")
	}
	if got := store.PublicURL("k"); got != "https://bucket.s3.amazonaws.com/k" {
		t.Fatalf("unexpected default public url %s", got)
	}
}

func TestKey(t *testing.T) {
	key := Key("user-1", "Photo.JPG")
	if !strings.HasPrefix(key, "images/user-1/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %s", key)
	}
}
