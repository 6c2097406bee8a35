package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"charterdesk/broker-portal/broker-portal-backend/internal/config"
)

// Uploader archives a generated export and returns its storage key.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// S3Uploader stores exports in an S3 bucket under a deterministic
// date-partitioned key.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Uploader builds an uploader from the exports configuration. Static
// keys take precedence over the default credential chain when configured.
func NewS3Uploader(ctx context.Context, cfg config.ExportsConfig) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.KeyPrefix,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", u.prefix, time.Now().Format("2006/01/02"), name)

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export %s: %w", name, err)
	}
	return key, nil
}
