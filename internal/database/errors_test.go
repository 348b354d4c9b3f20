// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	queryErr := errors.New("unknown operator: $foo")

	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
		wantNotFound    bool
	}{
		{name: "nil", err: nil},
		{name: "no documents", err: mongo.ErrNoDocuments, wantNotFound: true},
		{name: "deadline", err: context.DeadlineExceeded, wantUnavailable: true},
		{name: "wrapped deadline", err: fmt.Errorf("find: %w", context.DeadlineExceeded), wantUnavailable: true},
		{name: "client disconnected", err: mongo.ErrClientDisconnected, wantUnavailable: true},
		{name: "breaker open", err: gobreaker.ErrOpenState, wantUnavailable: true},
		{name: "breaker half-open limit", err: gobreaker.ErrTooManyRequests, wantUnavailable: true},
		{name: "already classified", err: fmt.Errorf("x: %w", ErrStorageUnavailable), wantUnavailable: true},
		{name: "query error", err: queryErr},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("classify(nil) = %v", got)
				}
				return
			}
			if IsStorageUnavailable(got) != tt.wantUnavailable {
				t.Errorf("IsStorageUnavailable = %v, want %v (err %v)", !tt.wantUnavailable, tt.wantUnavailable, got)
			}
			if errors.Is(got, ErrNotFound) != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", !tt.wantNotFound, tt.wantNotFound)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error should still wrap the original: %v", got)
			}
		})
	}
}
