// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/recommend"
)

func TestRecommendForUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTopN   int
		wantCode   string
	}{
		{name: "default top_n", target: "/api/v1/recommendations/user/alice_2bd806c9", wantStatus: http.StatusOK, wantTopN: 0},
		{name: "explicit top_n", target: "/api/v1/recommendations/user/alice_2bd806c9?top_n=3", wantStatus: http.StatusOK, wantTopN: 3},
		{name: "zero top_n", target: "/api/v1/recommendations/user/u?top_n=0", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "negative top_n", target: "/api/v1/recommendations/user/u?top_n=-2", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "non numeric top_n", target: "/api/v1/recommendations/user/u?top_n=ten", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := &fakeEngine{recs: []recommend.Recommendation{{ProductID: "1001", Title: "Acme Saree", Score: 4.5}}}
			srv := newTestServer(t, newTestHandler(t, newFakeStore(), engine, nil), "")

			rec, env := doRequest(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				if len(engine.users) != 0 {
					t.Error("engine should not be called on invalid input")
				}
				return
			}

			if env.Status != "success" {
				t.Errorf("status = %q", env.Status)
			}
			if len(engine.topNs) != 1 || engine.topNs[0] != tt.wantTopN {
				t.Errorf("engine topN = %v, want [%d]", engine.topNs, tt.wantTopN)
			}
			var resp recommend.Response
			decodeData(t, env, &resp)
			if len(resp.Recommendations) != 1 || resp.Recommendations[0].ProductID != "1001" {
				t.Errorf("recommendations = %+v", resp.Recommendations)
			}
		})
	}
}

func TestRecommendForUser_EmptyListIsSuccess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newTestHandler(t, newFakeStore(), &fakeEngine{}, nil), "")
	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/user/nobody", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp recommend.Response
	decodeData(t, env, &resp)
	if resp.Recommendations == nil || len(resp.Recommendations) != 0 {
		t.Errorf("recommendations = %#v, want empty non-nil list", resp.Recommendations)
	}
}

func TestRecommendForUser_EngineDisabled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newTestHandler(t, newFakeStore(), nil, nil), "")
	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/user/u1", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeServiceDisabled {
		t.Errorf("got %d %+v", rec.Code, env.Error)
	}
}

func TestRecommendForUsername(t *testing.T) {
	t.Parallel()

	unavailable := fmt.Errorf("find user: %w", database.ErrStorageUnavailable)
	tests := []struct {
		name       string
		username   string
		storeErr   error
		wantStatus int
		wantUser   string
		wantCode   string
	}{
		{name: "resolves user id", username: "alice", wantStatus: http.StatusOK, wantUser: "alice_2bd806c9"},
		{name: "unknown username", username: "mallory", wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "user without id", username: "ghost", wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "store unavailable", username: "alice", storeErr: unavailable, wantStatus: http.StatusServiceUnavailable, wantCode: ErrCodeDatabaseUnavailable},
		{name: "store error", username: "alice", storeErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: ErrCodeDatabaseError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore()
			store.err = tt.storeErr
			engine := &fakeEngine{}
			srv := newTestServer(t, newTestHandler(t, store, engine, nil), "")

			rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/username/"+tt.username, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			if len(engine.users) != 1 || engine.users[0] != tt.wantUser {
				t.Errorf("engine users = %v, want [%s]", engine.users, tt.wantUser)
			}
		})
	}
}

func TestReloadModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		reloadErr  error
		wantStatus int
		wantCode   string
	}{
		{name: "reloaded", wantStatus: http.StatusOK},
		{name: "no artifact", reloadErr: fmt.Errorf("load: %w", recommend.ErrArtifactNotFound), wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "corrupt artifact", reloadErr: fmt.Errorf("load: %w", recommend.ErrArtifactCorrupt), wantStatus: http.StatusServiceUnavailable, wantCode: ErrCodeModelUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, newTestHandler(t, newFakeStore(), &fakeEngine{reloadErr: tt.reloadErr}, nil), "")
			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations/reload", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommendationStatus(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{status: recommend.Status{
		ArtifactLoaded: true,
		Artifact:       &recommend.ArtifactMetadata{Name: "recommender", Version: 2},
		TotalRequests:  7,
	}}
	h := newTestHandler(t, newFakeStore(), engine, nil)
	srv := newTestServer(t, h, "")

	doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/user/u1", "")
	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var st RecommendationStatus
	decodeData(t, env, &st)
	if !st.Engine.ArtifactLoaded || st.Engine.Artifact.Version != 2 || st.Engine.TotalRequests != 7 {
		t.Errorf("engine status = %+v", st.Engine)
	}

	found := false
	for _, ep := range st.Endpoints {
		if ep.Endpoint == "GET /api/v1/recommendations/user/{userID}" {
			found = true
		}
	}
	if !found {
		t.Errorf("endpoint stats missing recommendation route: %+v", st.Endpoints)
	}
}
