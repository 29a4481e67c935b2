// Package minio archives analyses to S3-compatible object storage.
package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// ObjectAPI is the subset of *minio.Client the archive uses.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ArchiveConfig holds connection and layout parameters.
type ArchiveConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	Bucket          string
	// Prefix is prepended to every object key, e.g. "reports/".
	Prefix string
	// RetentionDays expires archived objects; 0 keeps them forever.
	RetentionDays int
	// ConnectTimeout bounds bucket setup at start-up.
	ConnectTimeout time.Duration
}

const (
	defaultRegion         = "us-east-1"
	defaultBucket         = "covergap-reports"
	defaultConnectTimeout = 10 * time.Second
	retentionRuleID       = "covergap-report-retention"
)

func applyDefaults(cfg *ArchiveConfig) {
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
}

// NewObjectAPI connects a minio-go client to cfg.Endpoint.
func NewObjectAPI(cfg ArchiveConfig) (ObjectAPI, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InternalConfiguration("archive endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalConfiguration, "failed to create object storage client")
	}
	return client, nil
}

// ensureBucket creates the bucket when missing and installs the retention
// rule.  A rejected lifecycle rule is logged: some S3-compatible stores do
// not implement it.
func ensureBucket(ctx context.Context, api ObjectAPI, cfg ArchiveConfig, logger logging.Logger) error {
	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check archive bucket").WithDetail(cfg.Bucket)
	}
	if !exists {
		if err := api.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create archive bucket").WithDetail(cfg.Bucket)
		}
		logger.Info("Created archive bucket", logging.String("bucket", cfg.Bucket))
	}

	if cfg.RetentionDays <= 0 {
		return nil
	}
	rules := lifecycle.NewConfiguration()
	rules.Rules = []lifecycle.Rule{{
		ID:         retentionRuleID,
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: cfg.Prefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(cfg.RetentionDays)},
	}}
	if err := api.SetBucketLifecycle(ctx, cfg.Bucket, rules); err != nil {
		logger.Warn("Failed to set archive retention",
			logging.String("bucket", cfg.Bucket),
			logging.Int("days", cfg.RetentionDays),
			logging.Err(err))
	}
	return nil
}

//Personal.AI order the ending
