// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/ingest"
	"github.com/tomtom215/fashintel/internal/models"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// fakeStore is an in-memory CatalogStore.
type fakeStore struct {
	mu           sync.Mutex
	pingErr      error
	err          error // returned by every data method when set
	products     map[string]*models.Product
	users        map[string]*models.User
	categories   []string
	interactions []*models.Interaction
	listCalls    int
	lastFilter   models.ProductFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*models.Product{
			"1001": {ProductID: "1001", Title: "Acme Saree (red, regular, festive)", Attributes: models.Attributes{"category": "saree", "color": "red"}},
			"1002": {ProductID: "1002", Title: "Zed Shirt (blue, slim, casual)", Attributes: models.Attributes{"category": "shirt", "color": "blue"}},
		},
		users: map[string]*models.User{
			"alice": {Username: "alice", UserID: "alice_2bd806c9"},
			"ghost": {Username: "ghost"},
		},
		categories: []string{"saree", "shirt"},
	}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) BreakerState() string { return "closed" }

func (s *fakeStore) FindProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("find product %s: %w", id, database.ErrNotFound)
	}
	return p, nil
}

func (s *fakeStore) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.lastFilter = f
	if s.err != nil {
		return nil, 0, s.err
	}
	out := []models.Product{}
	for _, id := range []string{"1001", "1002"} {
		p := s.products[id]
		if f.Category != "" && p.Category() != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Categories(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *fakeStore) InsertInteraction(_ context.Context, in *models.Interaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.interactions = append(s.interactions, in)
	return fmt.Sprintf("oid-%d", len(s.interactions)), nil
}

func (s *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("find user: %w", database.ErrNotFound)
	}
	return u, nil
}

// fakeEngine records calls and returns canned recommendations.
type fakeEngine struct {
	mu        sync.Mutex
	users     []string
	topNs     []int
	recs      []recommend.Recommendation
	reloadErr error
	status    recommend.Status
}

func (e *fakeEngine) Recommend(_ context.Context, userID string, topN int) *recommend.Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.users = append(e.users, userID)
	e.topNs = append(e.topNs, topN)
	recs := e.recs
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	return &recommend.Response{
		Recommendations: recs,
		Metadata:        recommend.ResponseMetadata{UserID: userID, TopN: topN, Strategy: recommend.StrategyWarmStart, GeneratedAt: time.Now()},
	}
}

func (e *fakeEngine) Reload(context.Context) (*recommend.ArtifactMetadata, error) {
	if e.reloadErr != nil {
		return nil, e.reloadErr
	}
	return &recommend.ArtifactMetadata{Name: "recommender", Version: 3}, nil
}

func (e *fakeEngine) Status() recommend.Status { return e.status }

// fakeIngester returns a canned result.
type fakeIngester struct {
	running bool
	result  *ingest.Result
	err     error
	runs    int
}

func (f *fakeIngester) Run(context.Context) (*ingest.Result, error) {
	f.runs++
	return f.result, f.err
}

func (f *fakeIngester) Running() bool { return f.running }

func (f *fakeIngester) LastResult() *ingest.Result { return f.result }

func testConfig() *config.Config {
	return &config.Config{
		API:    config.APIConfig{DefaultPageSize: 20, PageLinks: 10},
		Server: config.ServerConfig{Timeout: 5 * time.Second},
	}
}

func newTestHandler(t *testing.T, store CatalogStore, engine Recommender, ingester Ingester) *Handler {
	t.Helper()
	h := NewHandler(Deps{DB: store, Engine: engine, Ingester: ingester, Config: testConfig(), Version: "test"})
	t.Cleanup(h.Close)
	return h
}

// newTestServer builds the full chi router with rate limiting disabled.
func newTestServer(t *testing.T, h *Handler, adminToken string) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.AdminToken = adminToken
	return NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\ndata: %s", err, env.Data)
	}
}
