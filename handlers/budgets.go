// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lmatteson/grantwell/budget"
	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
)

type BudgetHandler struct {
	cfg     cliparse.Config
	budgets *budget.Store
	members *members.Store
}

func NewBudgetHandler(db *sql.DB, cfg cliparse.Config) *BudgetHandler {
	return &BudgetHandler{
		cfg:     cfg,
		budgets: budget.NewStore(db),
		members: members.NewStore(db),
	}
}

// Get handles GET /budgets/{year}
// Returns the budget with derived pools, allocated totals, and the
// (possibly negative) remainders. Pools are guidance, not gates.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.CallerFromContext(r.Context()); !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be a number")
		return
	}

	status, err := buildBudgetStatus(r.Context(), h.budgets, h.members, year)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}

// Upsert handles PUT /budgets/{year}
func (h *BudgetHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if caller.Role != models.RoleOversight && caller.Role != models.RoleManager {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only oversight or manager roles may set budgets")
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be a number")
		return
	}

	var req models.UpsertBudgetRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	b := models.Budget{
		Year:                 year,
		TotalAmountCents:     req.TotalAmountCents,
		JointRatio:           req.JointRatio,
		DiscretionaryRatio:   req.DiscretionaryRatio,
		RolloverCents:        req.RolloverCents,
		MeetingRevealEnabled: req.MeetingRevealEnabled,
		UpdatedBy:            caller.ID,
	}

	saved, err := h.budgets.Upsert(r.Context(), b)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("budget upserted",
		"year", year,
		"total", budget.FormatUSD(saved.TotalAmountCents),
		"actor", caller.ID,
	)

	middleware.JSONResponse(w, http.StatusOK, map[string]models.Budget{"budget": saved})
}

// buildBudgetStatus assembles the full budget picture for a year: pools,
// allocated totals per pool, remainders, and the per-member cap.
func buildBudgetStatus(ctx context.Context, budgets *budget.Store, memberStore *members.Store, year int) (models.BudgetStatus, error) {
	b, err := budgets.Get(ctx, year)
	if err != nil {
		return models.BudgetStatus{}, err
	}

	jointPool, discretionaryPool := budget.Pools(b)

	jointAllocated, discretionaryAllocated, err := budgets.Allocated(ctx, year)
	if err != nil {
		return models.BudgetStatus{}, err
	}

	voterCount, err := memberStore.CountEligibleVoters(ctx, "")
	if err != nil {
		return models.BudgetStatus{}, err
	}

	return models.BudgetStatus{
		Budget:                      b,
		JointPoolCents:              jointPool,
		DiscretionaryPoolCents:      discretionaryPool,
		JointAllocatedCents:         jointAllocated,
		DiscretionaryAllocatedCents: discretionaryAllocated,
		JointRemainingCents:         jointPool - jointAllocated,
		DiscretionaryRemainingCents: discretionaryPool - discretionaryAllocated,
		PerMemberCapCents:           budget.PerMemberCap(discretionaryPool, voterCount),
	}, nil
}
