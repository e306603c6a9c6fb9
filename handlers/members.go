// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/lmatteson/grantwell/auth"
	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/middleware"
	"github.com/lmatteson/grantwell/models"
)

type MemberHandler struct {
	cfg     cliparse.Config
	members *members.Store
}

func NewMemberHandler(db *sql.DB, cfg cliparse.Config) *MemberHandler {
	return &MemberHandler{
		cfg:     cfg,
		members: members.NewStore(db),
	}
}

// Create handles POST /members
// Returns the new member and their signed token. Bootstrapping the first
// admin happens out of band (the token scheme is deterministic, so an
// operator with the salt can mint one).
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if caller.Role != models.RoleAdmin && caller.Role != models.RoleOversight {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only admin or oversight roles may add members")
		return
	}

	var req models.CreateMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	m, err := members.New(req.Name, req.Email, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.members.Create(r.Context(), m); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("member created", "member_id", m.ID, "role", m.Role, "by", caller.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateMemberResponse{
		Member: m,
		Token:  auth.GenerateMemberToken(m.ID, h.cfg.MemberTokenSalt),
	})
}

// List handles GET /members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.CallerFromContext(r.Context()); !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ms, err := h.members.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string][]models.Member{"members": ms})
}
