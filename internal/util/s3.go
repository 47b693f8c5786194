package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"go.uber.org/zap"
)

// S3API is the part of *s3.Client that sync needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Syncer copies exported applications between a local directory and a bucket
// prefix.
type Syncer struct {
	Client   S3API
	Bucket   string
	Prefix   string
	LocalDir string
	Logger   *zap.Logger
}

func NewSyncer(client S3API, cfg model.Config, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		Client:   client,
		Bucket:   cfg.Sync.Bucket,
		Prefix:   cfg.Sync.Prefix,
		LocalDir: cfg.ExportDir,
		Logger:   logger,
	}
}

// Key maps a file name to its object key.
func (s *Syncer) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

// Upload puts the local file name into the bucket.
func (s *Syncer) Upload(ctx context.Context, name string) error {
	filePath := filepath.Join(s.LocalDir, name)
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	key := s.Key(name)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", key, err)
	}

	s.Logger.Info("uploaded to S3", zap.String("key", key))
	return nil
}

// Download fetches name from the bucket into the local directory.
func (s *Syncer) Download(ctx context.Context, name string) error {
	key := s.Key(name)
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to download %s from S3: %w", key, err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(s.LocalDir, 0755); err != nil {
		return fmt.Errorf("❌ Failed to create directory %s: %w", s.LocalDir, err)
	}

	localPath := filepath.Join(s.LocalDir, name)
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to create file %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("❌ Failed to write file %s: %w", localPath, err)
	}

	s.Logger.Info("downloaded from S3", zap.String("key", key))
	return nil
}

func isNotFoundErr(err error) bool {
	var noKey *types.NoSuchKey
	return errors.As(err, &noKey)
}

func NewS3Client(ctx context.Context, pitchConfig model.Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if pitchConfig.Sync.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(pitchConfig.Sync.AWSProfile))
	}
	if pitchConfig.Sync.AWSRegion != "" {
		opts = append(opts, config.WithRegion(pitchConfig.Sync.AWSRegion))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}
