package services

import (
	"context"
	"fmt"
	"io"

	"github.com/Taraweeh/initializers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// AudioUploader stores an audio object and returns its public URL.
type AudioUploader interface {
	UploadAudio(ctx context.Context, key string, body io.Reader) (string, error)
}

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client PutObjectAPI
	bucket string
	region string
}

func NewS3Storage(client PutObjectAPI, bucket, region string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, region: region}
}

// InitS3Storage builds an S3 client from AWS_REGION and the AWS key pair,
// falling back to the default credential chain when the keys are unset.
func InitS3Storage(ctx context.Context) (*S3Storage, error) {
	region := initializers.Getenv("AWS_REGION", "us-east-1")
	bucket := initializers.Getenv("S3_BUCKET", "imams-riyadh-audio")

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	accessKey := initializers.Getenv("AWS_ACCESS_KEY_ID", "")
	secretKey := initializers.Getenv("AWS_SECRET_ACCESS_KEY", "")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("bucket", bucket).Str("region", region).Msg("S3 storage configured")
	return NewS3Storage(s3.NewFromConfig(cfg), bucket, region), nil
}

func (s *S3Storage) UploadAudio(ctx context.Context, key string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *S3Storage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
