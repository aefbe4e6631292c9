package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/explain"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/negotiation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20 // 1MB

// Negotiator runs one negotiation.
type Negotiator interface {
	Negotiate(ctx context.Context, req negotiation.Request) (*contracts.NegotiationResult, error)
}

// Explainer produces one explanation.
type Explainer interface {
	Explain(ctx context.Context, req explain.Request) (*contracts.ExplanationResponse, error)
}

// Server exposes the engine over HTTP.
type Server struct {
	negotiator Negotiator
	explainer  Explainer
	records    *audit.Store
	cache      *ExplainCache
	instrument func(operation string, next http.Handler) http.Handler
	logger     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAuditStore exposes read access to the in-process audit chain.
func WithAuditStore(store *audit.Store) ServerOption {
	return func(s *Server) { s.records = store }
}

// WithExplainCache enables response caching for /v1/explain.
func WithExplainCache(cache *ExplainCache) ServerOption {
	return func(s *Server) { s.cache = cache }
}

// WithInstrumentation wraps each operation handler, e.g. with the
// observability provider's span-and-metrics middleware.
func WithInstrumentation(instrument func(operation string, next http.Handler) http.Handler) ServerOption {
	return func(s *Server) { s.instrument = instrument }
}

// NewServer builds the HTTP server facade.
func NewServer(n Negotiator, e Explainer, opts ...ServerOption) *Server {
	s := &Server{
		negotiator: n,
		explainer:  e,
		logger:     slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes assembles the mux with the standard middleware chain.
func (s *Server) Routes(limiter *GlobalRateLimiter, identity *Identity) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/negotiate", s.wrap("negotiate", http.HandlerFunc(s.HandleNegotiate)))
	mux.Handle("/v1/explain", s.wrap("explain", http.HandlerFunc(s.HandleExplain)))
	mux.HandleFunc("/v1/audit/records", s.HandleAuditRecords)
	mux.HandleFunc("/health", s.HandleHealth)

	var h http.Handler = mux
	if identity != nil {
		h = identity.Middleware(h)
	}
	if limiter != nil {
		h = limiter.Middleware(h)
	}
	return RequestID(h)
}

func (s *Server) wrap(operation string, h http.Handler) http.Handler {
	if s.instrument == nil {
		return h
	}
	return s.instrument(operation, h)
}

// HandleNegotiate handles POST /v1/negotiate.
func (s *Server) HandleNegotiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteMethodNotAllowed(w)
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if err := validateBody(compiledNegotiateSchema, body); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	var req negotiation.Request
	if err := json.Unmarshal(body, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	s.stampPrincipal(r, &req.UserID, &req.CorrelationID)

	result, err := s.negotiator.Negotiate(r.Context(), req)
	if err != nil {
		if errors.Is(err, negotiation.ErrInvalidRequest) || errors.Is(err, negotiation.ErrInsufficientCandidates) {
			WriteBadRequest(w, err.Error())
			return
		}
		WriteInternal(w, err)
		return
	}

	writeJSON(w, result)
}

// HandleExplain handles POST /v1/explain.
func (s *Server) HandleExplain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteMethodNotAllowed(w)
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if err := validateBody(compiledExplainSchema, body); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(body)
		if cached := s.cache.Get(r.Context(), cacheKey); cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			_, _ = w.Write(cached)
			return
		}
	}

	var req explain.Request
	if err := json.Unmarshal(body, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := s.explainer.Explain(r.Context(), req)
	if err != nil {
		if errors.Is(err, explain.ErrInvalidRequest) {
			WriteBadRequest(w, err.Error())
			return
		}
		WriteInternal(w, err)
		return
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			s.cache.Set(r.Context(), cacheKey, encoded)
		}
	}
	writeJSON(w, resp)
}

// HandleAuditRecords handles GET /v1/audit/records?limit=N.
func (s *Server) HandleAuditRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteMethodNotAllowed(w)
		return
	}
	if s.records == nil {
		WriteNotFound(w, "Audit record access is not enabled")
		return
	}

	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	writeJSON(w, s.records.List(limit))
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// stampPrincipal fills caller identity from the request context without
// overriding explicit body fields.
func (s *Server) stampPrincipal(r *http.Request, userID, correlationID *string) {
	p, ok := GetPrincipal(r.Context())
	if !ok {
		return
	}
	if *userID == "" {
		*userID = p.UserID
	}
	if *correlationID == "" {
		*correlationID = p.CorrelationID
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteBadRequest(w, "Unable to read request body")
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
