// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proposals

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/votes"
)

var (
	ErrNotFound          = errors.New("proposal not found")
	ErrInvalidType       = errors.New("proposal type must be joint or discretionary")
	ErrInvalidMode       = errors.New("allocation mode must be sum or average")
	ErrEmptyTitle        = errors.New("title can't be empty")
	ErrEmptyDescription  = errors.New("description can't be empty")
	ErrNegativeAmount    = errors.New("proposed amount must be non-negative")
	ErrManagerJointOnly  = errors.New("managers may only submit joint proposals")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyDecided    = errors.New("proposal has already been decided")
	ErrNotEditable       = errors.New("proposal can no longer be edited")
)

// New validates and builds a proposal. Joint proposals always use the sum
// allocation mode; discretionary proposals may declare sum or average, but
// their live amount is the proposer-set figure either way.
func New(proposerID, proposerRole, proposalType, allocationMode string, budgetYear int,
	organizationID, title, description string, proposedAmountCents int64,
	website, charityNavigatorURL string) (models.Proposal, error) {

	if proposalType != models.TypeJoint && proposalType != models.TypeDiscretionary {
		return models.Proposal{}, ErrInvalidType
	}
	if proposerRole == models.RoleManager && proposalType != models.TypeJoint {
		return models.Proposal{}, ErrManagerJointOnly
	}
	if title == "" {
		return models.Proposal{}, ErrEmptyTitle
	}
	if description == "" {
		return models.Proposal{}, ErrEmptyDescription
	}
	if proposedAmountCents < 0 {
		return models.Proposal{}, ErrNegativeAmount
	}

	switch proposalType {
	case models.TypeJoint:
		// Forced regardless of what the caller sent
		allocationMode = models.ModeSum
	case models.TypeDiscretionary:
		if allocationMode == "" {
			allocationMode = models.ModeSum
		}
		if allocationMode != models.ModeSum && allocationMode != models.ModeAverage {
			return models.Proposal{}, ErrInvalidMode
		}
	}

	now := time.Now().UTC()
	p := models.Proposal{
		ID:                  uuid.NewString(),
		ProposalType:        proposalType,
		ProposerID:          proposerID,
		BudgetYear:          budgetYear,
		Title:               title,
		Description:         description,
		ProposedAmountCents: proposedAmountCents,
		Status:              models.StatusToReview,
		AllocationMode:      allocationMode,
		RevealVotes:         false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if organizationID != "" {
		p.OrganizationID = &organizationID
	}
	if website != "" {
		p.Website = &website
	}
	if charityNavigatorURL != "" {
		p.CharityNavigatorURL = &charityNavigatorURL
	}
	return p, nil
}

// CheckTransition validates a status transition.
//
//	to_review -> approved | declined
//	approved  -> sent
//
// Re-deciding a decided proposal is ErrAlreadyDecided (a conflict, not a
// malformed request); everything else is ErrInvalidTransition. Nothing ever
// returns to to_review.
func CheckTransition(from, to string) error {
	switch {
	case from == models.StatusToReview && (to == models.StatusApproved || to == models.StatusDeclined):
		return nil
	case from == models.StatusApproved && to == models.StatusSent:
		return nil
	case from != models.StatusToReview && (to == models.StatusApproved || to == models.StatusDeclined):
		return ErrAlreadyDecided
	default:
		return ErrInvalidTransition
	}
}

// DecisionAllowed reports whether a role may record the given decision.
// Oversight and managers approve/decline at the meeting; admins may
// additionally mark an approved grant as sent.
func DecisionAllowed(role, to string) bool {
	switch to {
	case models.StatusApproved, models.StatusDeclined:
		return role == models.RoleOversight || role == models.RoleManager
	case models.StatusSent:
		return role == models.RoleOversight || role == models.RoleManager || role == models.RoleAdmin
	}
	return false
}

// ComputedFinalAmount is the proposal's live dollar figure. Joint: the sum
// of yes-vote pledges. Discretionary: the proposer-set amount; its votes
// are advisory and never move the number.
func ComputedFinalAmount(p models.Proposal, vs []models.Vote) int64 {
	if p.ProposalType == models.TypeJoint {
		return votes.SumYesAllocations(vs)
	}
	return p.ProposedAmountCents
}

// canSeeBreakdown: vote detail is hidden from non-oversight viewers until
// the proposal is revealed. Oversight and managers always see it.
func canSeeBreakdown(p models.Proposal, viewerRole string) bool {
	if p.RevealVotes {
		return true
	}
	return viewerRole == models.RoleOversight || viewerRole == models.RoleManager
}

// ComputeProgress derives a proposal's aggregate voting state for a viewer.
// Masked output never includes per-vote choice, amount, or voter identity;
// aggregates always include every vote regardless of masking.
func ComputeProgress(p models.Proposal, vs []models.Vote, eligibleVoterCount int, viewerID, viewerRole string) models.Progress {
	prog := models.Progress{
		TotalRequiredVotes:       eligibleVoterCount,
		VotesSubmitted:           len(vs),
		Masked:                   !p.RevealVotes,
		ComputedFinalAmountCents: ComputedFinalAmount(p, vs),
		IsReadyForMeeting:        len(vs) >= eligibleVoterCount,
	}

	for _, v := range vs {
		if v.VoterID == viewerID {
			prog.HasCurrentUserVoted = true
			break
		}
	}

	if canSeeBreakdown(p, viewerRole) {
		prog.Votes = vs
	}

	return prog
}

// ApplyPatch validates a patch against a proposal and returns the updated
// copy. Every present field is checked before any of them is applied; a
// proposal that has left to_review is no longer editable.
func ApplyPatch(p models.Proposal, patch models.PatchProposalRequest) (models.Proposal, error) {
	if p.Status != models.StatusToReview {
		return models.Proposal{}, ErrNotEditable
	}

	if patch.Title != nil && *patch.Title == "" {
		return models.Proposal{}, ErrEmptyTitle
	}
	if patch.Description != nil && *patch.Description == "" {
		return models.Proposal{}, ErrEmptyDescription
	}
	if patch.ProposedAmountCents != nil && *patch.ProposedAmountCents < 0 {
		return models.Proposal{}, ErrNegativeAmount
	}
	if patch.AllocationMode != nil {
		if p.ProposalType == models.TypeJoint && *patch.AllocationMode != models.ModeSum {
			return models.Proposal{}, ErrInvalidMode
		}
		if *patch.AllocationMode != models.ModeSum && *patch.AllocationMode != models.ModeAverage {
			return models.Proposal{}, ErrInvalidMode
		}
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ProposedAmountCents != nil {
		p.ProposedAmountCents = *patch.ProposedAmountCents
	}
	if patch.AllocationMode != nil {
		p.AllocationMode = *patch.AllocationMode
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	if patch.Website != nil {
		p.Website = patch.Website
	}
	if patch.CharityNavigatorURL != nil {
		p.CharityNavigatorURL = patch.CharityNavigatorURL
	}
	p.UpdatedAt = time.Now().UTC()

	return p, nil
}
