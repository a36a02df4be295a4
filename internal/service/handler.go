package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zloyaloha/web-searcher/internal/searcher"
	"github.com/zloyaloha/web-searcher/pkg/config"
	pkgerrors "github.com/zloyaloha/web-searcher/pkg/errors"
	"github.com/zloyaloha/web-searcher/pkg/logger"
	"github.com/zloyaloha/web-searcher/pkg/metrics"
)

// SearchResponse is the JSON body returned by /search.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []searcher.Result `json:"results"`
	Count   int               `json:"count"`
	TookMS  int64             `json:"took_ms"`
	Cached  bool              `json:"cached"`
}

// Handler serves search queries over HTTP.
type Handler struct {
	searcher searcher.Searcher
	cache    *QueryCache
	cfg      config.SearchConfig
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHandler creates a search Handler.
func NewHandler(s searcher.Searcher, cache *QueryCache, cfg config.SearchConfig, m *metrics.Metrics) *Handler {
	return &Handler{
		searcher: s,
		cache:    cache,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.WithComponent("search-handler"),
	}
}

// Search handles GET /search?q=<query>&limit=<n>.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, pkgerrors.New(pkgerrors.ErrInvalidInput,
			http.StatusMethodNotAllowed, "use GET"))
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		h.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		writeError(w, pkgerrors.New(pkgerrors.ErrInvalidInput,
			http.StatusBadRequest, "missing query parameter q"))
		return
	}
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		writeError(w, err)
		return
	}

	start := time.Now()
	results, cached := h.cache.GetOrCompute(r.Context(), query, limit, func() []searcher.Result {
		found := h.searcher.Find(query)
		if len(found) > limit {
			found = found[:limit]
		}
		return found
	})
	took := time.Since(start)

	h.metrics.SearchLatency.Observe(took.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(results)))
	if len(results) == 0 {
		h.metrics.SearchQueriesTotal.WithLabelValues("zero_result").Inc()
	} else {
		h.metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	h.logger.Debug("query served",
		"query", query,
		"results", len(results),
		"cached", cached,
		"took", took,
	)

	if results == nil {
		results = []searcher.Result{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
		TookMS:  took.Milliseconds(),
		Cached:  cached,
	})
}

func (h *Handler) parseLimit(raw string) (int, error) {
	if raw == "" {
		return h.cfg.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, pkgerrors.Newf(pkgerrors.ErrInvalidInput,
			http.StatusBadRequest, "invalid limit %q", raw)
	}
	if limit > h.cfg.MaxResults {
		limit = h.cfg.MaxResults
	}
	return limit, nil
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(pkgerrors.HTTPStatusCode(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
