// services/spaces.go
package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService ships database backups to an S3 compatible bucket.
type SpacesService struct {
	client *s3.Client
	bucket string
	region string
	Root   string
}

func NewSpacesService(ctx context.Context, spacesKey, spacesSecret, region, bucket, root string) (*SpacesService, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.digitaloceanspaces.com", region))
	})

	return &SpacesService{
		client: client,
		bucket: bucket,
		region: region,
		Root:   strings.Trim(root, "/"),
	}, nil
}

func (s *SpacesService) key(name string) string {
	if s.Root == "" {
		return name
	}
	return s.Root + "/" + name
}

// Upload stores body under Root/name. The bucket object stays private.
func (s *SpacesService) Upload(ctx context.Context, name string, body io.ReadSeeker) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// GetBackupURL is the public location of an uploaded backup.
func (s *SpacesService) GetBackupURL(name string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.key(name))
}
