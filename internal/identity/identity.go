// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package identity derives the stable user ids that key interactions and
// the recommendation model's user index.
//
// A user id is the username reduced to lowercase ASCII letters and digits,
// an underscore, and the first 8 hex characters of SHA-256(username):
//
//	identity.Base("Jane.Doe") // "janedoe_" + sha256("Jane.Doe")[:8]
//
// When that id is already taken, Generate derives alternates by hashing the
// username with a numeric salt until a free id is found.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxAttempts bounds the number of candidate ids tried by Generate.
const MaxAttempts = 16

const suffixLen = 8

var (
	// ErrEmptyUsername is returned for a blank username.
	ErrEmptyUsername = errors.New("username is empty")

	// ErrExhausted is returned when every candidate id is taken.
	ErrExhausted = errors.New("no free user id")
)

// Checker reports whether a user id is already assigned.
// *database.DB satisfies it.
type Checker interface {
	UserIDExists(ctx context.Context, userID string) (bool, error)
}

// Sanitize lowercases username and drops everything but ASCII letters and digits.
func Sanitize(username string) string {
	var b strings.Builder
	b.Grow(len(username))
	for _, r := range strings.ToLower(username) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Base returns the first-choice id for username.
func Base(username string) string {
	return Sanitize(username) + "_" + hashSuffix(username)
}

// Candidate returns the id tried on the given attempt, starting at 0.
// Attempt 0 is Base(username). Later attempts salt the hash with the base id
// length plus attempt-1, so each retry yields a new suffix.
func Candidate(username string, attempt int) string {
	if attempt <= 0 {
		return Base(username)
	}
	sanitized := Sanitize(username)
	salt := len(sanitized) + 1 + suffixLen + attempt - 1
	return sanitized + "_" + hashSuffix(username+strconv.Itoa(salt))
}

// Generate returns the first candidate id for username not reported as taken
// by checker. A nil checker returns Base(username).
func Generate(ctx context.Context, username string, checker Checker) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrEmptyUsername
	}
	if checker == nil {
		return Base(username), nil
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		id := Candidate(username, attempt)
		taken, err := checker.UserIDExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check user id %s: %w", id, err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts for %q", ErrExhausted, MaxAttempts, username)
}

func hashSuffix(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:suffixLen]
}
