// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/lmatteson/grantwell/budget"
	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/proposals"
	"github.com/lmatteson/grantwell/votes"
)

type SnapshotHandler struct {
	cfg       cliparse.Config
	proposals *proposals.Store
	votes     *votes.Store
	budgets   *budget.Store
	members   *members.Store
}

func NewSnapshotHandler(db *sql.DB, cfg cliparse.Config) *SnapshotHandler {
	return &SnapshotHandler{
		cfg:       cfg,
		proposals: proposals.NewStore(db),
		votes:     votes.NewStore(db),
		budgets:   budget.NewStore(db),
		members:   members.NewStore(db),
	}
}

// Foundation handles GET /foundation?year=YYYY
// The whole giving round at a glance: budget with running totals, every
// proposal of the year with progress, and allocated history across years.
func (h *SnapshotHandler) Foundation(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	year := time.Now().UTC().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "year must be a number")
			return
		}
		year = y
	}

	status, err := buildBudgetStatus(r.Context(), h.budgets, h.members, year)
	if err != nil {
		respondError(w, err)
		return
	}

	ps, err := h.proposals.ListByYear(r.Context(), year)
	if err != nil {
		respondError(w, err)
		return
	}

	withProgress, err := h.attachProgress(r.Context(), ps, caller)
	if err != nil {
		respondError(w, err)
		return
	}

	history, err := h.budgets.AllocatedByYear(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FoundationSnapshot{
		Budget:        status,
		Proposals:     withProgress,
		HistoryByYear: history,
	})
}

// Workspace handles GET /workspace?year=YYYY
// The caller's personal view: their slice of the discretionary pool,
// proposals still waiting on their vote, their vote history, and the
// gifts they have submitted.
func (h *SnapshotHandler) Workspace(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	year := time.Now().UTC().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "year must be a number")
			return
		}
		year = y
	}

	personal, err := h.personalBudget(r.Context(), year, caller.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	actionItems, err := h.actionItems(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}

	history, err := h.votes.ListByVoter(r.Context(), caller.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	submitted, err := h.proposals.ListByProposer(r.Context(), caller.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	submittedWithProgress, err := h.attachProgress(r.Context(), submitted, caller)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WorkspaceSnapshot{
		Member:         caller,
		PersonalBudget: personal,
		ActionItems:    actionItems,
		VoteHistory:    history,
		SubmittedGifts: submittedWithProgress,
	})
}

func (h *SnapshotHandler) personalBudget(ctx context.Context, year int, memberID string) (models.PersonalBudget, error) {
	b, err := h.budgets.Get(ctx, year)
	if err == budget.ErrNotFound {
		// No budget yet: everything is zero, nothing to warn about
		return models.PersonalBudget{CapDisplay: budget.FormatUSD(0)}, nil
	}
	if err != nil {
		return models.PersonalBudget{}, err
	}

	_, discretionaryPool := budget.Pools(b)
	voterCount, err := h.members.CountEligibleVoters(ctx, "")
	if err != nil {
		return models.PersonalBudget{}, err
	}
	capCents := budget.PerMemberCap(discretionaryPool, voterCount)

	committed, err := h.budgets.CommittedDiscretionary(ctx, year, memberID, "")
	if err != nil {
		return models.PersonalBudget{}, err
	}

	return models.PersonalBudget{
		CapCents:       capCents,
		CommittedCents: committed,
		RemainingCents: capCents - committed,
		CapDisplay:     budget.FormatUSD(capCents),
	}, nil
}

// actionItems: open proposals the caller is eligible to vote on and
// hasn't voted on yet.
func (h *SnapshotHandler) actionItems(ctx context.Context, caller models.Member) ([]models.ProposalWithProgress, error) {
	out := []models.ProposalWithProgress{}
	if !members.CanVote(caller.Role) {
		return out, nil
	}

	open, err := h.proposals.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range open {
		if p.ProposalType == models.TypeDiscretionary && p.ProposerID == caller.ID {
			continue
		}
		voted, err := h.votes.HasVoted(ctx, p.ID, caller.ID)
		if err != nil {
			return nil, err
		}
		if voted {
			continue
		}
		pwp, err := h.withProgress(ctx, p, caller)
		if err != nil {
			return nil, err
		}
		out = append(out, pwp)
	}
	return out, nil
}

func (h *SnapshotHandler) attachProgress(ctx context.Context, ps []models.Proposal, viewer models.Member) ([]models.ProposalWithProgress, error) {
	out := make([]models.ProposalWithProgress, 0, len(ps))
	for _, p := range ps {
		pwp, err := h.withProgress(ctx, p, viewer)
		if err != nil {
			return nil, err
		}
		out = append(out, pwp)
	}
	return out, nil
}

func (h *SnapshotHandler) withProgress(ctx context.Context, p models.Proposal, viewer models.Member) (models.ProposalWithProgress, error) {
	vs, err := h.votes.ListByProposal(ctx, p.ID)
	if err != nil {
		return models.ProposalWithProgress{}, err
	}

	exclude := ""
	if p.ProposalType == models.TypeDiscretionary {
		exclude = p.ProposerID
	}
	eligible, err := h.members.CountEligibleVoters(ctx, exclude)
	if err != nil {
		return models.ProposalWithProgress{}, err
	}

	return models.ProposalWithProgress{
		Proposal: p,
		Progress: proposals.ComputeProgress(p, vs, eligible, viewer.ID, viewer.Role),
	}, nil
}
