// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and
environment variables.

Flags take precedence over environment variables. Secrets should be
provided via environment in production; the flag forms exist for local
development only.

	-p / PORT                         server port (default 3419)
	-d / DATABASE_URL                 PostgreSQL connection string (required)
	--member-salt / MEMBER_TOKEN_SALT secret for member token HMAC (required)
*/
package cliparse
