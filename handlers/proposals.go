// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lmatteson/grantwell/budget"
	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/proposals"
	"github.com/lmatteson/grantwell/votes"
)

type ProposalHandler struct {
	cfg       cliparse.Config
	proposals *proposals.Store
	votes     *votes.Store
	budgets   *budget.Store
	members   *members.Store
}

func NewProposalHandler(db *sql.DB, cfg cliparse.Config) *ProposalHandler {
	return &ProposalHandler{
		cfg:       cfg,
		proposals: proposals.NewStore(db),
		votes:     votes.NewStore(db),
		budgets:   budget.NewStore(db),
		members:   members.NewStore(db),
	}
}

// Submit handles POST /proposals
func (h *ProposalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if caller.Role == models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admins do not submit proposals")
		return
	}

	var req models.SubmitProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.BudgetYear == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "budget_year is required")
		return
	}

	// A budget must be provisioned before the first proposal of a year
	if _, err := h.budgets.Get(r.Context(), req.BudgetYear); err != nil {
		respondError(w, err)
		return
	}

	p, err := proposals.New(caller.ID, caller.Role, req.ProposalType, req.AllocationMode,
		req.BudgetYear, req.OrganizationID, req.Title, req.Description,
		req.ProposedAmountCents, req.Website, req.CharityNavigatorURL)
	if err != nil {
		respondError(w, err)
		return
	}

	// The per-member discretionary ceiling is the one hard budget rule
	if p.ProposalType == models.TypeDiscretionary {
		if err := h.checkDiscretionaryCap(r.Context(), req.BudgetYear, caller.ID, req.ProposedAmountCents, ""); err != nil {
			respondError(w, err)
			return
		}
	}

	if err := h.proposals.Create(r.Context(), p); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("proposal submitted",
		"proposal_id", p.ID,
		"type", p.ProposalType,
		"year", p.BudgetYear,
		"proposer", caller.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, map[string]models.Proposal{"proposal": p})
}

// Get handles GET /proposals/{id}
func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	proposalID := r.PathValue("id")
	if proposalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	p, err := h.proposals.Get(r.Context(), proposalID)
	if err != nil {
		respondError(w, err)
		return
	}

	pwp, err := h.withProgress(r.Context(), p, caller)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pwp)
}

// Patch handles PATCH /proposals/{id}
func (h *ProposalHandler) Patch(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if caller.Role != models.RoleOversight && caller.Role != models.RoleManager {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only oversight or manager roles may edit proposals")
		return
	}

	proposalID := r.PathValue("id")
	if proposalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	var patch models.PatchProposalRequest
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.proposals.Get(r.Context(), proposalID)
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := proposals.ApplyPatch(p, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	// Raising a discretionary amount re-runs the proposer's cap check
	if updated.ProposalType == models.TypeDiscretionary && patch.ProposedAmountCents != nil {
		if err := h.checkDiscretionaryCap(r.Context(), updated.BudgetYear, updated.ProposerID,
			updated.ProposedAmountCents, updated.ID); err != nil {
			respondError(w, err)
			return
		}
	}

	saved, err := h.proposals.Update(r.Context(), updated)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("proposal edited", "proposal_id", saved.ID, "editor", caller.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]models.Proposal{"proposal": saved})
}

// withProgress assembles a proposal with its derived progress for a viewer.
func (h *ProposalHandler) withProgress(ctx context.Context, p models.Proposal, viewer models.Member) (models.ProposalWithProgress, error) {
	vs, err := h.votes.ListByProposal(ctx, p.ID)
	if err != nil {
		return models.ProposalWithProgress{}, err
	}

	eligible, err := h.eligibleVoterCount(ctx, p)
	if err != nil {
		return models.ProposalWithProgress{}, err
	}

	return models.ProposalWithProgress{
		Proposal: p,
		Progress: proposals.ComputeProgress(p, vs, eligible, viewer.ID, viewer.Role),
	}, nil
}

// eligibleVoterCount: every voting member for joint proposals; the
// proposer is carved out of their own discretionary pool.
func (h *ProposalHandler) eligibleVoterCount(ctx context.Context, p models.Proposal) (int, error) {
	exclude := ""
	if p.ProposalType == models.TypeDiscretionary {
		exclude = p.ProposerID
	}
	return h.members.CountEligibleVoters(ctx, exclude)
}

// checkDiscretionaryCap fails with a validation error when addCents would
// push the member's cumulative discretionary allocation for the year past
// min($5,000,000, discretionaryPool / eligibleVoters).
func (h *ProposalHandler) checkDiscretionaryCap(ctx context.Context, year int, memberID string, addCents int64, excludeProposalID string) error {
	b, err := h.budgets.Get(ctx, year)
	if err != nil {
		return err
	}
	_, discretionaryPool := budget.Pools(b)

	voterCount, err := h.members.CountEligibleVoters(ctx, "")
	if err != nil {
		return err
	}
	capCents := budget.PerMemberCap(discretionaryPool, voterCount)

	committed, err := h.budgets.CommittedDiscretionary(ctx, year, memberID, excludeProposalID)
	if err != nil {
		return err
	}

	if committed+addCents > capCents {
		return fmt.Errorf("%w: %s committed plus %s requested exceeds your %s discretionary cap for %d",
			budget.ErrCapExceeded,
			budget.FormatUSD(committed), budget.FormatUSD(addCents), budget.FormatUSD(capCents), year)
	}
	return nil
}
