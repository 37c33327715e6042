package uploader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"noisebatch/pkg/config"
	"noisebatch/pkg/errors"
	"noisebatch/pkg/logger"
	"noisebatch/pkg/models"
	"noisebatch/pkg/retry"
)

// S3Uploader publishes artifacts to an S3 bucket
type S3Uploader struct {
	uploader *manager.Uploader
	cfg      *config.UploadConfig
	logger   logger.Logger
}

// NewS3Uploader creates an uploader against the configured bucket using the
// default AWS credential chain.
func NewS3Uploader(ctx context.Context, cfg *config.UploadConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Uploader{
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		logger:   logger.GetLogger(),
	}, nil
}

// Publish uploads one artifact, tagged with its addressing metadata. Transient
// failures are retried with backoff up to the configured attempt budget;
// exhausting it surfaces a single upload error to the caller.
func (u *S3Uploader) Publish(ctx context.Context, artifact models.Artifact) error {
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeUpload,
			fmt.Sprintf("failed to read artifact %s", artifact.Path), err)
	}

	key := BuildKey(u.cfg, artifact)
	metadata := map[string]string{
		"source":      artifact.Source,
		"kind":        string(artifact.Kind),
		"range-start": artifact.Range.Start.Format(time.RFC3339),
		"range-end":   artifact.Range.End.Format(time.RFC3339),
		"resolution":  artifact.Resolution.String(),
	}

	retryCfg := &retry.Config{
		MaxAttempts: u.cfg.MaxRetries,
		Backoff:     &retry.FixedBackoff{Delay: u.cfg.RetryDelay},
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Logger:      u.logger,
	}

	err = retry.Do(func() error {
		_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:   aws.String(u.cfg.Bucket),
			Key:      aws.String(key),
			Body:     bytes.NewReader(data),
			Metadata: metadata,
		})
		if err != nil {
			return errors.Wrap(errors.ErrorTypeUpload,
				fmt.Sprintf("failed to upload s3://%s/%s", u.cfg.Bucket, key), err)
		}
		return nil
	}, retryCfg)
	if err != nil {
		return err
	}

	u.logger.InfoWithFields("Artifact published", map[string]interface{}{
		"source": artifact.Source,
		"kind":   string(artifact.Kind),
		"bucket": u.cfg.Bucket,
		"key":    key,
		"bytes":  len(data),
	})

	return nil
}
