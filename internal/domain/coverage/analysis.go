package coverage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Analysis is a stored run of the matcher: the report plus the action plan
// derived from it.  The policy text itself is never kept.
type Analysis struct {
	ID          string      `json:"id"`
	PolicyHash  string      `json:"policy_hash"`
	GeneratedAt time.Time   `json:"generated_at"`
	Truncated   bool        `json:"truncated"`
	Report      *Report     `json:"report"`
	ActionPlan  *ActionPlan `json:"action_plan"`
}

// PolicyHash fingerprints an analysis request.  Identical inputs map to the
// same hash, which keys both the cache and the store.
func PolicyHash(text, category, region string) string {
	h := sha256.New()
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(region))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// AnalysisRepository persists analyses.  FindByID returns an error carrying
// ErrCodeReportNotFound when the id is unknown.
type AnalysisRepository interface {
	Save(ctx context.Context, a *Analysis) error
	FindByID(ctx context.Context, id string) (*Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]*Analysis, error)
	Ping(ctx context.Context) error
}

// AnalysisCache memoises analyses by policy hash.  Get reports a miss with
// found == false and a nil error.
type AnalysisCache interface {
	Get(ctx context.Context, policyHash string) (a *Analysis, found bool, err error)
	Set(ctx context.Context, policyHash string, a *Analysis, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// EventPublisher announces completed analyses.
type EventPublisher interface {
	PublishAnalyzed(ctx context.Context, a *Analysis) error
}

// AnalysisArchive keeps a durable copy of each analysis outside the report
// store, for retention beyond the database.
type AnalysisArchive interface {
	Archive(ctx context.Context, a *Analysis) error
	Ping(ctx context.Context) error
}

//Personal.AI order the ending
