// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lmatteson/grantwell/budget"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/proposals"
	"github.com/lmatteson/grantwell/votes"
)

// respondError maps domain sentinel errors to HTTP statuses:
// validation 400, invalid transition 400, forbidden 403, not found 404,
// conflict 409. Anything unrecognized is a logged 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, budget.ErrNotFound),
		errors.Is(err, proposals.ErrNotFound),
		errors.Is(err, members.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())

	case errors.Is(err, votes.ErrAlreadyVoted),
		errors.Is(err, proposals.ErrAlreadyDecided),
		errors.Is(err, members.ErrEmailTaken):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())

	case errors.Is(err, proposals.ErrManagerJointOnly):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())

	case errors.Is(err, proposals.ErrInvalidTransition),
		errors.Is(err, proposals.ErrInvalidType),
		errors.Is(err, proposals.ErrInvalidMode),
		errors.Is(err, proposals.ErrEmptyTitle),
		errors.Is(err, proposals.ErrEmptyDescription),
		errors.Is(err, proposals.ErrNegativeAmount),
		errors.Is(err, proposals.ErrNotEditable),
		errors.Is(err, votes.ErrInvalidChoice),
		errors.Is(err, votes.ErrAmountRequired),
		errors.Is(err, votes.ErrNegativeAmount),
		errors.Is(err, votes.ErrFlagCommentNeeded),
		errors.Is(err, budget.ErrCapExceeded),
		errors.Is(err, budget.ErrRatioSum),
		errors.Is(err, budget.ErrBadRatio),
		errors.Is(err, budget.ErrNegativeAmount),
		errors.Is(err, members.ErrInvalidRole),
		errors.Is(err, members.ErrEmptyName),
		errors.Is(err, members.ErrEmptyEmail):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())

	default:
		slog.Error("internal error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
