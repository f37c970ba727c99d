// Package photo archives meal photos outside the KV store, which only
// keeps the object key.
package photo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Archive stores an image and returns the key it can be found under
type Archive interface {
	Store(ctx context.Context, userID string, image []byte) (string, error)
}

// ObjectPutter is the part of the S3 client the archive needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive uploads photos to a bucket under meals/<user>/<date>/<id>.<ext>
type S3Archive struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewS3Archive loads the default AWS credential chain for region
func NewS3Archive(ctx context.Context, bucket, region string) (*S3Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3ArchiveWithClient(s3.NewFromConfig(cfg), bucket), nil
}

// NewS3ArchiveWithClient uses an existing client
func NewS3ArchiveWithClient(client ObjectPutter, bucket string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, now: time.Now}
}

func (a *S3Archive) Store(ctx context.Context, userID string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	contentType := http.DetectContentType(image)
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}

	key := fmt.Sprintf("meals/%s/%s/%s%s", userID, a.now().UTC().Format("2006-01-02"), uuid.NewString(), ext)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo to S3: %w", err)
	}
	return key, nil
}
