// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles member token generation and validation.

Real account management (passwords, sessions) is an external collaborator.
This server only needs to know which member is calling and what their role
is; a member token is the member's ID signed with a server-side salt:

	<memberID>.<base64url HMAC-SHA256(memberID, salt)>

Tokens are deterministic and verifiable without storage. Validation uses
constant-time comparison.
*/
package auth
