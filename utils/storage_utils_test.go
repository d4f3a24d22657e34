package utils

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadDetectsContentType(t *testing.T) {
	fake := &fakeS3{}
	u := NewS3UploaderWithClient(fake, S3Config{Bucket: "vault", PublicBaseURL: "https://cdn.example.com/"})

	url, err := u.Upload(context.Background(), "items/user-1", pngHeader)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/items/user-1/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %s", url)
	}
	if aws.StringValue(fake.input.ContentType) != "image/png" || aws.StringValue(fake.input.Bucket) != "vault" {
		t.Fatalf("unexpected input %+v", fake.input)
	}
	if string(fake.body) != string(pngHeader) {
		t.Fatalf("body not forwarded")
	}
}

func TestUploadWrapsError(t *testing.T) {
	boom := errors.New("denied")
	u := NewS3UploaderWithClient(&fakeS3{err: boom}, S3Config{Bucket: "vault", Endpoint: "https://object.example.io"})
	if _, err := u.Upload(context.Background(), "x", pngHeader); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage(pngHeader) {
		t.Fatalf("png must be an image")
	}
	if IsImage([]byte("%PDF-1.4")) {
		t.Fatalf("pdf is not an image")
	}
}

func TestIsImageRejectsSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><rect width="1" height="1"/></svg>`)
	if IsImage(svg) {
		t.Fatalf("svg must not be accepted as an upload image")
	}
}
