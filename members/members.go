// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmatteson/grantwell/models"
)

var (
	ErrNotFound    = errors.New("member not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role")
	ErrEmptyName   = errors.New("name can't be empty")
	ErrEmptyEmail  = errors.New("email can't be empty")
)

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case models.RoleMember, models.RoleOversight, models.RoleManager, models.RoleAdmin:
		return true
	}
	return false
}

// CanVote reports whether a role participates in proposal voting.
// Managers and admins administer the round but hold no vote.
func CanVote(role string) bool {
	return role == models.RoleMember || role == models.RoleOversight
}

// New validates and builds a member record.
func New(name, email, role string) (models.Member, error) {
	if name == "" {
		return models.Member{}, ErrEmptyName
	}
	if email == "" {
		return models.Member{}, ErrEmptyEmail
	}
	if !ValidRole(role) {
		return models.Member{}, ErrInvalidRole
	}

	return models.Member{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, m models.Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member (id, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.Name, m.Email, m.Role, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, created_at
		FROM member
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, created_at
		FROM member
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	out := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountEligibleVoters counts voting members (member + oversight roles),
// optionally excluding one member ID. Discretionary proposals exclude the
// proposer from their own voting pool.
func (s *Store) CountEligibleVoters(ctx context.Context, excludeID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM member
		WHERE role IN ('member', 'oversight') AND id <> $1
	`, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count eligible voters: %w", err)
	}
	return n, nil
}
