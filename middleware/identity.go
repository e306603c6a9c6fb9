// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/lmatteson/grantwell/auth"
	"github.com/lmatteson/grantwell/members"
	"github.com/lmatteson/grantwell/models"
)

type contextKey string

const memberKey contextKey = "member"

// TokenHeader is the header carrying the caller's signed member token.
const TokenHeader = "X-Member-Token"

// WithIdentity resolves the X-Member-Token header into a member record and
// stores it in the request context. Requests without a valid token are
// rejected with 401; role checks happen in the handlers.
func WithIdentity(db *sql.DB, salt string, next http.HandlerFunc) http.HandlerFunc {
	store := members.NewStore(db)

	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, TokenHeader+" header required")
			return
		}

		memberID, err := auth.ValidateMemberToken(token, salt)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid member token")
			return
		}

		m, err := store.Get(r.Context(), memberID)
		if err == members.ErrNotFound {
			ErrorResponse(w, http.StatusUnauthorized, "Unknown member")
			return
		}
		if err != nil {
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		next(w, r.WithContext(ContextWithCaller(r.Context(), m)))
	}
}

// ContextWithCaller stores the authenticated member on a context.
func ContextWithCaller(ctx context.Context, m models.Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

// CallerFromContext returns the authenticated member for this request.
func CallerFromContext(ctx context.Context) (models.Member, bool) {
	m, ok := ctx.Value(memberKey).(models.Member)
	return m, ok
}
