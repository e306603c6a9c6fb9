// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: request start/completion logging with duration
  - WithIdentity: resolves X-Member-Token into a member record in context
  - JSONResponse / ErrorResponse / ParseJSONBody: JSON plumbing
  - CORS: cross-origin support for the web frontend

WithIdentity only establishes who is calling; role gating belongs to the
individual handlers because each operation has its own allowed-role set.
*/
package middleware
