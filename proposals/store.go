// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proposals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lmatteson/grantwell/models"
)

const proposalColumns = `id, proposal_type, proposer_id, budget_year, organization_id,
	title, description, proposed_amount_cents, status, allocation_mode, reveal_votes,
	final_amount_cents, notes, website, charity_navigator_url, sent_at, created_at, updated_at`

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p models.Proposal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposal (id, proposal_type, proposer_id, budget_year, organization_id,
			title, description, proposed_amount_cents, status, allocation_mode, reveal_votes,
			notes, website, charity_navigator_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, p.ID, p.ProposalType, p.ProposerID, p.BudgetYear, p.OrganizationID,
		p.Title, p.Description, p.ProposedAmountCents, p.Status, p.AllocationMode, p.RevealVotes,
		p.Notes, p.Website, p.CharityNavigatorURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Proposal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposal WHERE id = $1`, id)
	return scanProposal(row)
}

func (s *Store) ListByYear(ctx context.Context, year int) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM proposal WHERE budget_year = $1 ORDER BY created_at, id
	`, year)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

func (s *Store) ListByProposer(ctx context.Context, proposerID string) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM proposal WHERE proposer_id = $1 ORDER BY created_at DESC
	`, proposerID)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

// ListOpen returns every proposal still in to_review, oldest first.
func (s *Store) ListOpen(ctx context.Context) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM proposal WHERE status = 'to_review' ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

// SetReveal flips the visibility toggle. It touches nothing else: reveal
// never recomputes amounts.
func (s *Store) SetReveal(ctx context.Context, id string, reveal bool) (models.Proposal, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proposal SET reveal_votes = $1, updated_at = $2 WHERE id = $3
	`, reveal, time.Now().UTC(), id)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("update reveal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Proposal{}, fmt.Errorf("update reveal: %w", err)
	}
	if n == 0 {
		return models.Proposal{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Decide performs a state machine transition. The final amount is computed
// and locked inside the same transaction, and the UPDATE is guarded on the
// status we read: if a concurrent decision got there first, zero rows are
// affected and the caller gets ErrAlreadyDecided. First writer wins.
func (s *Store) Decide(ctx context.Context, id, next string) (models.Proposal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("begin decide: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposal WHERE id = $1`, id)
	p, err := scanProposal(row)
	if err != nil {
		return models.Proposal{}, err
	}

	if err := CheckTransition(p.Status, next); err != nil {
		return models.Proposal{}, err
	}

	now := time.Now().UTC()
	switch next {
	case models.StatusApproved:
		// Lock in the amount as of this instant. Later votes (there should
		// be none, but the guard is the lock, not the voting window) can
		// never change it.
		vs, err := listVotesTx(ctx, tx, id)
		if err != nil {
			return models.Proposal{}, err
		}
		final := ComputedFinalAmount(p, vs)
		res, err := tx.ExecContext(ctx, `
			UPDATE proposal SET status = $1, final_amount_cents = $2, updated_at = $3
			WHERE id = $4 AND status = $5
		`, models.StatusApproved, final, now, id, p.Status)
		if err != nil {
			return models.Proposal{}, fmt.Errorf("approve proposal: %w", err)
		}
		if err := requireOneRow(res); err != nil {
			return models.Proposal{}, err
		}

	case models.StatusDeclined:
		res, err := tx.ExecContext(ctx, `
			UPDATE proposal SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`, models.StatusDeclined, now, id, p.Status)
		if err != nil {
			return models.Proposal{}, fmt.Errorf("decline proposal: %w", err)
		}
		if err := requireOneRow(res); err != nil {
			return models.Proposal{}, err
		}

	case models.StatusSent:
		res, err := tx.ExecContext(ctx, `
			UPDATE proposal SET status = $1, sent_at = $2, updated_at = $2
			WHERE id = $3 AND status = $4
		`, models.StatusSent, now, id, p.Status)
		if err != nil {
			return models.Proposal{}, fmt.Errorf("send proposal: %w", err)
		}
		if err := requireOneRow(res); err != nil {
			return models.Proposal{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Proposal{}, fmt.Errorf("commit decide: %w", err)
	}

	return s.Get(ctx, id)
}

// Update persists a patched proposal, guarded on the row still being in
// to_review so a racing decision can't be overwritten.
func (s *Store) Update(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proposal
		SET title = $1, description = $2, proposed_amount_cents = $3, allocation_mode = $4,
		    notes = $5, website = $6, charity_navigator_url = $7, updated_at = $8
		WHERE id = $9 AND status = 'to_review'
	`, p.Title, p.Description, p.ProposedAmountCents, p.AllocationMode,
		p.Notes, p.Website, p.CharityNavigatorURL, p.UpdatedAt, p.ID)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("update proposal: %w", err)
	}
	if err := requireOneRow(res); err != nil {
		return models.Proposal{}, err
	}
	return s.Get(ctx, p.ID)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// A concurrent writer changed the status between our read and write
		return ErrAlreadyDecided
	}
	return nil
}

func listVotesTx(ctx context.Context, tx *sql.Tx, proposalID string) ([]models.Vote, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT proposal_id, voter_id, choice, allocation_amount_cents, flag_comment, created_at
		FROM vote
		WHERE proposal_id = $1
		ORDER BY created_at, voter_id
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	out := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var comment sql.NullString
		if err := rows.Scan(&v.ProposalID, &v.VoterID, &v.Choice, &v.AllocationAmountCents, &comment, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		if comment.Valid {
			v.FlagComment = &comment.String
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (models.Proposal, error) {
	var p models.Proposal
	var orgID, notes, website, charityURL sql.NullString
	var finalAmount sql.NullInt64
	var sentAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.ProposalType, &p.ProposerID, &p.BudgetYear, &orgID,
		&p.Title, &p.Description, &p.ProposedAmountCents, &p.Status, &p.AllocationMode, &p.RevealVotes,
		&finalAmount, &notes, &website, &charityURL, &sentAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Proposal{}, ErrNotFound
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("scan proposal: %w", err)
	}

	if orgID.Valid {
		p.OrganizationID = &orgID.String
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	if website.Valid {
		p.Website = &website.String
	}
	if charityURL.Valid {
		p.CharityNavigatorURL = &charityURL.String
	}
	if finalAmount.Valid {
		p.FinalAmountCents = &finalAmount.Int64
	}
	if sentAt.Valid {
		p.SentAt = &sentAt.Time
	}
	return p, nil
}

func scanProposals(rows *sql.Rows) ([]models.Proposal, error) {
	out := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
