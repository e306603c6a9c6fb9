// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid member token")
)

// GenerateMemberToken creates a signed token for a member.
// Format: <memberID>.<base64url HMAC-SHA256(memberID, salt)>
// Deterministic, so tokens can be re-issued without storing them.
func GenerateMemberToken(memberID, salt string) string {
	return memberID + "." + sign(memberID, salt)
}

// ValidateMemberToken checks the token signature and returns the member ID.
func ValidateMemberToken(token, salt string) (string, error) {
	idx := strings.LastIndexByte(token, '.')
	if idx <= 0 || idx == len(token)-1 {
		return "", ErrInvalidToken
	}

	memberID := token[:idx]
	sig := token[idx+1:]

	expected := sign(memberID, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}

	return memberID, nil
}

func sign(memberID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(memberID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
