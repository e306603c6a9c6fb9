// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/proposals"
	"github.com/lmatteson/grantwell/votes"
)

type VoteHandler struct {
	cfg       cliparse.Config
	proposals *proposals.Store
	votes     *votes.Store
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{
		cfg:       cfg,
		proposals: proposals.NewStore(db),
		votes:     votes.NewStore(db),
	}
}

// Cast handles POST /proposals/{id}/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !members.CanVote(caller.Role) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Your role does not vote on proposals")
		return
	}

	proposalID := r.PathValue("id")
	if proposalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.proposals.Get(r.Context(), proposalID)
	if err != nil {
		respondError(w, err)
		return
	}

	// Votes only exist while the proposal is under review
	if p.Status != models.StatusToReview {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is closed for this proposal")
		return
	}

	// A member never votes on their own discretionary gift
	if p.ProposalType == models.TypeDiscretionary && p.ProposerID == caller.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Proposers may not vote on their own discretionary proposal")
		return
	}

	// A joint yes must state its pledge; omission is not a $0 pledge
	var amount int64
	if req.AllocationAmountCents != nil {
		amount = *req.AllocationAmountCents
	} else if p.ProposalType == models.TypeJoint && req.Choice == models.ChoiceYes {
		respondError(w, votes.ErrAmountRequired)
		return
	}

	v, err := votes.New(proposalID, caller.ID, p.ProposalType, req.Choice, amount, req.FlagComment)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.votes.Cast(r.Context(), v); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("vote cast",
		"proposal_id", proposalID,
		"voter", caller.ID,
		"choice", req.Choice,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{OK: true})
}
