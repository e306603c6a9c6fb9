// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package budget

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lmatteson/grantwell/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, year int) (models.Budget, error) {
	var b models.Budget
	var updatedBy sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT year, total_amount_cents, joint_ratio, discretionary_ratio,
		       rollover_cents, meeting_reveal_enabled, updated_by, updated_at
		FROM budget
		WHERE year = $1
	`, year).Scan(
		&b.Year, &b.TotalAmountCents, &b.JointRatio, &b.DiscretionaryRatio,
		&b.RolloverCents, &b.MeetingRevealEnabled, &updatedBy, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Budget{}, ErrNotFound
	}
	if err != nil {
		return models.Budget{}, fmt.Errorf("query budget: %w", err)
	}
	if updatedBy.Valid {
		b.UpdatedBy = updatedBy.String
	}
	return b, nil
}

// Upsert writes the budget row for a year. The year key is immutable; a
// second upsert for the same year supersedes the previous values in place.
func (s *Store) Upsert(ctx context.Context, b models.Budget) (models.Budget, error) {
	if err := Validate(b.TotalAmountCents, b.RolloverCents, b.JointRatio, b.DiscretionaryRatio); err != nil {
		return models.Budget{}, err
	}

	b.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budget (year, total_amount_cents, joint_ratio, discretionary_ratio,
		                    rollover_cents, meeting_reveal_enabled, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year) DO UPDATE SET
			total_amount_cents = EXCLUDED.total_amount_cents,
			joint_ratio = EXCLUDED.joint_ratio,
			discretionary_ratio = EXCLUDED.discretionary_ratio,
			rollover_cents = EXCLUDED.rollover_cents,
			meeting_reveal_enabled = EXCLUDED.meeting_reveal_enabled,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`, b.Year, b.TotalAmountCents, b.JointRatio, b.DiscretionaryRatio,
		b.RolloverCents, b.MeetingRevealEnabled, b.UpdatedBy, b.UpdatedAt)
	if err != nil {
		return models.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return b, nil
}

// Allocated sums locked final amounts over the year's decided proposals
// (approved or sent), split by pool. Amounts are locked at decision time,
// so later votes never move these totals.
func (s *Store) Allocated(ctx context.Context, year int) (jointCents, discretionaryCents int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(final_amount_cents) FILTER (WHERE proposal_type = 'joint'), 0),
			COALESCE(SUM(final_amount_cents) FILTER (WHERE proposal_type = 'discretionary'), 0)
		FROM proposal
		WHERE budget_year = $1 AND status IN ('approved', 'sent')
	`, year).Scan(&jointCents, &discretionaryCents)
	if err != nil {
		return 0, 0, fmt.Errorf("sum allocated: %w", err)
	}
	return jointCents, discretionaryCents, nil
}

// AllocatedByYear returns per-year allocated totals across all years with
// at least one decided proposal, newest year first.
func (s *Store) AllocatedByYear(ctx context.Context) ([]models.YearTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT budget_year,
			COALESCE(SUM(final_amount_cents) FILTER (WHERE proposal_type = 'joint'), 0),
			COALESCE(SUM(final_amount_cents) FILTER (WHERE proposal_type = 'discretionary'), 0)
		FROM proposal
		WHERE status IN ('approved', 'sent')
		GROUP BY budget_year
		ORDER BY budget_year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("sum allocated by year: %w", err)
	}
	defer rows.Close()

	out := []models.YearTotals{}
	for rows.Next() {
		var yt models.YearTotals
		if err := rows.Scan(&yt.Year, &yt.JointAllocatedCents, &yt.DiscretionaryAllocatedCents); err != nil {
			return nil, fmt.Errorf("scan year totals: %w", err)
		}
		out = append(out, yt)
	}
	return out, rows.Err()
}

// CommittedDiscretionary sums one member's discretionary proposal amounts
// for a year across to_review, approved, and sent. Pending proposals use
// their proposed amount; decided ones use the locked final amount. This is
// the figure checked against PerMemberCap. excludeProposalID carves out a
// proposal whose amount is about to be replaced (may be empty).
func (s *Store) CommittedDiscretionary(ctx context.Context, year int, memberID, excludeProposalID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(
			CASE WHEN status = 'to_review' THEN proposed_amount_cents
			     ELSE COALESCE(final_amount_cents, 0) END), 0)
		FROM proposal
		WHERE budget_year = $1
		  AND proposer_id = $2
		  AND proposal_type = 'discretionary'
		  AND status IN ('to_review', 'approved', 'sent')
		  AND id <> $3
	`, year, memberID, excludeProposalID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum committed discretionary: %w", err)
	}
	return total, nil
}
