package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

// S3Settings configures an S3-compatible bucket (AWS, R2, MinIO).
type S3Settings struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// objectPutter is the subset of *s3.Client used by S3Store.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client    objectPutter
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, s S3Settings) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s.Region),
	}
	if s.AccessKey != "" && s.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(s.PublicURL, "/")
	if publicURL == "" {
		switch {
		case s.Endpoint != "":
			publicURL = strings.TrimRight(s.Endpoint, "/") + "/" + s.Bucket
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, s.Region)
		}
	}

	log.Printf("[Media] S3 store ready (bucket=%s)", s.Bucket)
	return &S3Store{client: client, bucket: s.Bucket, publicURL: publicURL}, nil
}

func (s *S3Store) Upload(ctx context.Context, localPath, folder string) (string, error) {
	defer removeTemp(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if m, err := mimetype.DetectFile(localPath); err == nil {
		contentType = m.String()
	}

	key := path.Join(folder, filepath.Base(localPath))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}
