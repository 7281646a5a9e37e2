package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// unavailableRepo fails every query the way an unreachable database would.
type unavailableRepo struct{}

var errUnavailable = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

func (unavailableRepo) FindAll(context.Context) ([]book.Book, error) { return nil, errUnavailable }
func (unavailableRepo) FindByID(context.Context, int64) (book.Book, error) {
	return book.Book{}, errUnavailable
}
func (unavailableRepo) FindByTitle(context.Context, string) ([]book.Book, error) {
	return nil, errUnavailable
}
func (unavailableRepo) FindByTitleContains(context.Context, string) ([]book.Book, error) {
	return nil, errUnavailable
}

var testHTTPConfig = config.HTTP{AllowedOrigins: []string{"http://localhost:5500"}}

func newTestServer(t *testing.T, repo book.Repository, db Pinger, cfg config.HTTP) http.Handler {
	t.Helper()
	handler := book.NewHTTPHandler(book.NewService(repo), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHandler(ctx, cfg, NewRouter(handler, db), zap.NewNop())
}

func serve(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestCatalogScenario(t *testing.T) {
	repo := book.NewMemoryRepo(
		book.Book{ID: 1, Title: "Dune"},
		book.Book{ID: 2, Title: "Foundation"},
	)
	h := newTestServer(t, repo, stubPinger{}, testHTTPConfig)

	t.Run("list books", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books"))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `[{"id":1,"title":"Dune"},{"id":2,"title":"Foundation"}]`, resp.RawBody)
	})

	t.Run("get book", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books/1"))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"id":1,"title":"Dune"}`, resp.RawBody)
	})

	t.Run("unknown book", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books/99"))
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Empty(t, resp.RawBody)
	})

	t.Run("malformed id", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodGet, "/api/v1/books/abc")
		r.Header.Set("X-Request-Id", "req-123")
		resp := serve(h, r)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "BAD_REQUEST", testutil.ErrorCode(resp.Body))
		assert.Contains(t, resp.RawBody, `"request_id":"req-123"`)
	})

	t.Run("search by keyword", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books?q=UND"))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `[{"id":2,"title":"Foundation"}]`, resp.RawBody)
	})

	t.Run("write methods are not routed", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodPost, "/api/v1/books"))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

		resp = serve(h, testutil.NewRequest(http.MethodDelete, "/api/v1/books/1"))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v2/books"))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestListLengthMatchesStore(t *testing.T) {
	repo := book.NewMemoryRepo()
	h := newTestServer(t, repo, stubPinger{}, testHTTPConfig)

	for n := 0; n < 5; n++ {
		resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books"))
		require.Equal(t, http.StatusOK, resp.Code)
		books, ok := resp.Body.([]any)
		require.True(t, ok, "body must be a JSON array: %s", resp.RawBody)
		assert.Len(t, books, n)

		require.NoError(t, repo.Seed(context.Background(), []book.Book{{Title: "Volume"}}))
	}
}

func TestStoreUnavailable(t *testing.T) {
	h := newTestServer(t, unavailableRepo{}, stubPinger{err: errUnavailable}, testHTTPConfig)

	for _, path := range []string{"/api/v1/books", "/api/v1/books/1", "/api/v1/books?q=go"} {
		resp := serve(h, testutil.NewRequest(http.MethodGet, path))
		assert.Equal(t, http.StatusInternalServerError, resp.Code, path)
		assert.Equal(t, "INTERNAL_ERROR", testutil.ErrorCode(resp.Body), path)
		assert.NotContains(t, resp.RawBody, "10.0.0.5", "internal detail leaked on %s", path)
	}

	resp := serve(h, testutil.NewRequest(http.MethodGet, "/readyz"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t, book.NewMemoryRepo(), stubPinger{}, testHTTPConfig)

	resp := serve(h, testutil.NewRequest(http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", resp.RawBody)

	resp = serve(h, testutil.NewRequest(http.MethodGet, "/readyz"))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ready", resp.RawBody)
}

func TestMiddlewareChain(t *testing.T) {
	h := newTestServer(t, book.NewMemoryRepo(), stubPinger{}, testHTTPConfig)

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		resp := serve(h, testutil.NewRequestWithOrigin(http.MethodGet, "/api/v1/books", "http://localhost:5500"))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "http://localhost:5500", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	})

	t.Run("other origin gets none", func(t *testing.T) {
		resp := serve(h, testutil.NewRequestWithOrigin(http.MethodGet, "/api/v1/books", "http://evil.example"))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		resp := serve(h, testutil.NewRequestWithOrigin(http.MethodOptions, "/api/v1/books/1", "http://localhost:5500"))
		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET")
	})
}

func TestRecoveryReturns500(t *testing.T) {
	router := http.NewServeMux()
	router.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := NewHandler(context.Background(), testHTTPConfig, router, zap.NewNop())

	resp := serve(h, testutil.NewRequest(http.MethodGet, "/boom"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "INTERNAL_ERROR", testutil.ErrorCode(resp.Body))
}

func TestRateLimit(t *testing.T) {
	cfg := testHTTPConfig
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	h := newTestServer(t, book.NewMemoryRepo(), stubPinger{}, cfg)

	resp := serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books"))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = serve(h, testutil.NewRequest(http.MethodGet, "/api/v1/books"))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", testutil.ErrorCode(resp.Body))
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testHTTPConfig
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	h := newTestServer(t, book.NewMemoryRepo(), stubPinger{}, cfg)

	for i, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		req := testutil.NewRequest(http.MethodGet, "/api/v1/books")
		req.Header.Set("X-Forwarded-For", forwarded)
		resp := serve(h, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, resp.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, resp.Code)
		}
	}
}

func TestNew(t *testing.T) {
	cfg := config.HTTP{ReadTimeout: 1, WriteTimeout: 2, IdleTimeout: 3}
	srv := New(":0", cfg, http.NotFoundHandler())
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, cfg.ReadTimeout, srv.ReadTimeout)
	assert.Equal(t, cfg.IdleTimeout, srv.IdleTimeout)
}
