package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

const contentTypeJSON = "application/json"

// ReportArchive stores each analysis as one JSON object keyed by date and
// report id.  It implements coverage.AnalysisArchive.
type ReportArchive struct {
	api    ObjectAPI
	bucket string
	prefix string
	logger logging.Logger
}

// NewReportArchive connects to cfg.Endpoint and prepares the bucket.
func NewReportArchive(ctx context.Context, cfg ArchiveConfig, logger logging.Logger) (*ReportArchive, error) {
	applyDefaults(&cfg)
	api, err := NewObjectAPI(cfg)
	if err != nil {
		return nil, err
	}
	return NewReportArchiveWithAPI(ctx, api, cfg, logger)
}

// NewReportArchiveWithAPI prepares the bucket through an existing client.
func NewReportArchiveWithAPI(ctx context.Context, api ObjectAPI, cfg ArchiveConfig, logger logging.Logger) (*ReportArchive, error) {
	applyDefaults(&cfg)
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	setupCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := ensureBucket(setupCtx, api, cfg, logger); err != nil {
		return nil, err
	}

	logger.Info("Report archive ready",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Int("retention_days", cfg.RetentionDays))
	return &ReportArchive{api: api, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}, nil
}

// Key is the object name for a: <prefix>YYYY/MM/DD/<id>.json in UTC.
func (r *ReportArchive) Key(a *coverage.Analysis) string {
	return r.prefix + a.GeneratedAt.UTC().Format("2006/01/02") + "/" + a.ID + ".json"
}

// Archive uploads a.  Summary fields travel as object metadata so listings
// can be filtered without downloading.
func (r *ReportArchive) Archive(ctx context.Context, a *coverage.Analysis) error {
	if a == nil || a.ID == "" {
		return errors.InvalidInput("analysis with an id is required")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode analysis")
	}

	meta := map[string]string{"policy-hash": a.PolicyHash}
	if a.Report != nil {
		meta["category"] = string(a.Report.PolicyCategory)
		meta["region"] = string(a.Report.Region)
		meta["overall-score"] = strconv.Itoa(a.Report.OverallScore)
		meta["critical-gaps"] = strconv.Itoa(a.Report.CriticalGapCount)
	}

	key := r.Key(a)
	info, err := r.api.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentTypeJSON,
		UserMetadata: meta,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to archive analysis").WithDetail(key)
	}

	r.logger.Debug("Analysis archived",
		logging.String("bucket", r.bucket),
		logging.String("key", key),
		logging.String("etag", info.ETag),
		logging.Int64("size", info.Size))
	return nil
}

// Ping reports whether the bucket is reachable.
func (r *ReportArchive) Ping(ctx context.Context) error {
	exists, err := r.api.BucketExists(ctx, r.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "archive unreachable")
	}
	if !exists {
		return errors.New(errors.ErrCodeServiceUnavailable, "archive bucket missing").WithDetail(r.bucket)
	}
	return nil
}

//Personal.AI order the ending
