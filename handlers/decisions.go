// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/proposals"
)

type DecisionHandler struct {
	cfg       cliparse.Config
	proposals *proposals.Store
}

func NewDecisionHandler(db *sql.DB, cfg cliparse.Config) *DecisionHandler {
	return &DecisionHandler{
		cfg:       cfg,
		proposals: proposals.NewStore(db),
	}
}

// Reveal handles POST /proposals/{id}/reveal
// Flips vote visibility for the meeting stage. Purely a display toggle:
// amounts are never recomputed here.
func (h *DecisionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if caller.Role != models.RoleOversight && caller.Role != models.RoleManager {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only oversight or manager roles may reveal votes")
		return
	}

	proposalID := r.PathValue("id")
	if proposalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	var req models.RevealRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.proposals.SetReveal(r.Context(), proposalID, req.Reveal)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("votes reveal toggled", "proposal_id", proposalID, "reveal", req.Reveal, "actor", caller.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]models.Proposal{"proposal": p})
}

// Decide handles POST /proposals/{id}/decision
// Records the meeting decision. Approving locks the computed amount at
// this instant; two racing decisions produce exactly one winner.
func (h *DecisionHandler) Decide(w http.ResponseWriter, r *http.Request) {
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

	var req models.DecisionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Status != models.StatusApproved && req.Status != models.StatusDeclined && req.Status != models.StatusSent {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be approved, declined, or sent")
		return
	}

	if !proposals.DecisionAllowed(caller.Role, req.Status) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Your role may not record this decision")
		return
	}

	p, err := h.proposals.Decide(r.Context(), proposalID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("decision recorded",
		"proposal_id", proposalID,
		"status", req.Status,
		"actor", caller.ID,
	)

	middleware.JSONResponse(w, http.StatusOK, map[string]models.Proposal{"proposal": p})
}
