package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/debuger6/trino/internal/ir"
)

// ErrNotFound is returned by Get when no fragment has the fingerprint.
var ErrNotFound = errors.New("store: fragment not found")

// NewPlanID generates a plan identifier. UUIDv7 is time-ordered, which
// keeps plan rows naturally clustered by creation order.
func NewPlanID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Put stores an expression fragment under the given plan at position seq
// and returns its fingerprint. Content addressing makes Put idempotent:
// storing a structurally equal tree under the same plan is a no-op and
// returns the same fingerprint.
func (s *Store) Put(ctx context.Context, planID string, seq int64, e ir.Expression) (string, error) {
	fingerprint, err := ir.Fingerprint(e)
	if err != nil {
		return "", fmt.Errorf("store: fingerprint fragment: %w", err)
	}
	body, err := ir.Encode(e)
	if err != nil {
		return "", fmt.Errorf("store: encode fragment: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fragments (fingerprint, plan_id, seq, body) VALUES (?, ?, ?, ?)`,
		fingerprint, planID, seq, string(body))
	if err != nil {
		return "", fmt.Errorf("store: insert fragment: %w", err)
	}
	return fingerprint, nil
}

// Get loads the expression with the given fingerprint. The decoded tree is
// re-fingerprinted before returning, so a corrupted body can never pass as
// the requested fragment.
func (s *Store) Get(ctx context.Context, fingerprint string) (ir.Expression, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM fragments WHERE fingerprint = ? LIMIT 1`,
		fingerprint).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query fragment: %w", err)
	}

	e, err := ir.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("store: decode fragment %s: %w", fingerprint, err)
	}
	actual, err := ir.Fingerprint(e)
	if err != nil {
		return nil, err
	}
	if actual != fingerprint {
		return nil, fmt.Errorf("store: fragment %s failed integrity check: body hashes to %s", fingerprint, actual)
	}
	return e, nil
}

// ListByPlan returns a plan's fragments ordered by seq, with fingerprint
// as a deterministic tiebreaker.
func (s *Store) ListByPlan(ctx context.Context, planID string) ([]ir.Expression, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM fragments WHERE plan_id = ? ORDER BY seq, fingerprint`,
		planID)
	if err != nil {
		return nil, fmt.Errorf("store: list fragments: %w", err)
	}
	defer rows.Close()

	var out []ir.Expression
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("store: scan fragment: %w", err)
		}
		e, err := ir.Decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("store: decode fragment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate fragments: %w", err)
	}
	return out, nil
}
