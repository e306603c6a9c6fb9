// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/lmatteson/grantwell/cliparse"
	"github.com/lmatteson/grantwell/handlers"
	"github.com/lmatteson/grantwell/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	proposalHandler := handlers.NewProposalHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	decisionHandler := handlers.NewDecisionHandler(db, cfg)
	budgetHandler := handlers.NewBudgetHandler(db, cfg)
	snapshotHandler := handlers.NewSnapshotHandler(db, cfg)
	memberHandler := handlers.NewMemberHandler(db, cfg)

	// Every route below requires a valid member token
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithIdentity(db, cfg.MemberTokenSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Proposal lifecycle
	mux.HandleFunc("POST /proposals", authed(proposalHandler.Submit))
	mux.HandleFunc("GET /proposals/{id}", authed(proposalHandler.Get))
	mux.HandleFunc("PATCH /proposals/{id}", authed(proposalHandler.Patch))
	mux.HandleFunc("POST /proposals/{id}/votes", authed(voteHandler.Cast))
	mux.HandleFunc("POST /proposals/{id}/reveal", authed(decisionHandler.Reveal))
	mux.HandleFunc("POST /proposals/{id}/decision", authed(decisionHandler.Decide))

	// Budgets
	mux.HandleFunc("GET /budgets/{year}", authed(budgetHandler.Get))
	mux.HandleFunc("PUT /budgets/{year}", authed(budgetHandler.Upsert))

	// Snapshots
	mux.HandleFunc("GET /foundation", authed(snapshotHandler.Foundation))
	mux.HandleFunc("GET /workspace", authed(snapshotHandler.Workspace))

	// Member directory
	mux.HandleFunc("POST /members", authed(memberHandler.Create))
	mux.HandleFunc("GET /members", authed(memberHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("grantwell API v1"))
	})

	return mux
}
