// Package repositories implements the domain repositories on PostgreSQL.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// MaxListLimit caps ListRecent.
const MaxListLimit = 100

const (
	insertAnalysisSQL = `
		INSERT INTO gap_reports (
			id, policy_hash, policy_category, region, analysis_path,
			overall_score, total_gaps, critical_gaps, truncated,
			report, action_plan, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`

	selectAnalysisColumns = `id::text, policy_hash, truncated, report, action_plan, created_at`

	findAnalysisByIDSQL = `SELECT ` + selectAnalysisColumns + ` FROM gap_reports WHERE id = $1`

	listRecentAnalysesSQL = `SELECT ` + selectAnalysisColumns + ` FROM gap_reports ORDER BY created_at DESC LIMIT $1`
)

type postgresAnalysisRepo struct {
	db  postgres.Querier
	log logging.Logger
}

// NewPostgresAnalysisRepo returns a coverage.AnalysisRepository backed by the
// gap_reports table.
func NewPostgresAnalysisRepo(db postgres.Querier, log logging.Logger) coverage.AnalysisRepository {
	return &postgresAnalysisRepo{db: db, log: log}
}

func (r *postgresAnalysisRepo) Save(ctx context.Context, a *coverage.Analysis) error {
	if a == nil || a.Report == nil {
		return errors.InvalidInput("analysis and report are required")
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		return errors.InvalidInput("analysis id must be a UUID").WithCause(err)
	}

	reportJSON, err := json.Marshal(a.Report)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode report")
	}
	var planJSON []byte
	if a.ActionPlan != nil {
		if planJSON, err = json.Marshal(a.ActionPlan); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode action plan")
		}
	}

	createdAt := a.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	rep := a.Report
	_, err = r.db.Exec(ctx, insertAnalysisSQL,
		a.ID, a.PolicyHash, string(rep.PolicyCategory), string(rep.Region), string(rep.Path),
		rep.OverallScore, rep.TotalGapCount, rep.CriticalGapCount, a.Truncated,
		reportJSON, planJSON, createdAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save analysis")
	}
	return nil
}

func (r *postgresAnalysisRepo) FindByID(ctx context.Context, id string) (*coverage.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeReportNotFound, "report not found")
	}

	a, err := scanAnalysis(r.db.QueryRow(ctx, findAnalysisByIDSQL, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeReportNotFound, "report not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load analysis")
	}
	return a, nil
}

func (r *postgresAnalysisRepo) ListRecent(ctx context.Context, limit int) ([]*coverage.Analysis, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := r.db.Query(ctx, listRecentAnalysesSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var out []*coverage.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan analysis")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate analyses")
	}
	return out, nil
}

func (r *postgresAnalysisRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanAnalysis(row pgx.Row) (*coverage.Analysis, error) {
	var (
		a          coverage.Analysis
		reportJSON []byte
		planJSON   []byte
	)
	if err := row.Scan(&a.ID, &a.PolicyHash, &a.Truncated, &reportJSON, &planJSON, &a.GeneratedAt); err != nil {
		return nil, err
	}

	a.Report = &coverage.Report{}
	if err := json.Unmarshal(reportJSON, a.Report); err != nil {
		return nil, err
	}
	if len(planJSON) > 0 {
		a.ActionPlan = &coverage.ActionPlan{}
		if err := json.Unmarshal(planJSON, a.ActionPlan); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

//Personal.AI order the ending
