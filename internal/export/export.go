// Package export mirrors persisted result documents to S3 compatible object
// storage. Mirroring is best-effort: the local results folder stays the
// source of truth and callers treat upload failures as warnings.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/pkg/shared/config"
)

// Exporter uploads result documents to a configured S3 bucket.
type Exporter struct {
	logger hclog.Logger
	bucket string
	region string
}

// New builds an Exporter from the storage section of the configuration.
func New(logger hclog.Logger, cfg *config.Config) *Exporter {
	return &Exporter{
		logger: logger,
		bucket: cfg.Storage.S3Bucket,
		region: cfg.Storage.S3Region,
	}
}

// Enabled reports whether a target bucket is configured.
func (e *Exporter) Enabled() bool {
	return e.bucket != ""
}

// Mirror uploads the file at path to the configured bucket. The object key is
// the file name, so the bucket mirrors the flat results folder layout.
func (e *Exporter) Mirror(path string) error {
	key := filepath.Base(path)
	e.logger.Info("uploading result document", "bucket", e.bucket, "key", key)

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(e.region),
	}))
	uploader := s3manager.NewUploader(sess)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open result document %q: %w", path, err)
	}
	defer f.Close()

	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to upload result document %q: %w", key, err)
	}

	e.logger.Info("uploaded result document", "location", result.Location)
	return nil
}
