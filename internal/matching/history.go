package matching

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
)

// ErrLoadInFlight signals that a page load was skipped because another
// one is still running. Callers treat it as a no-op.
var ErrLoadInFlight = errors.New("history load already in flight")

const defaultPageSize = 10

// HistoryGateway is the slice of the backend API the paginator needs.
type HistoryGateway interface {
	GetHistory(ctx context.Context, userID string, page, pageSize int) (gateway.HistoryPage, error)
}

// History accumulates pages of past matches in fetch order. Page 1
// replaces the list, later pages append. Filtering is local only: it
// never sees matches from pages that were not fetched yet.
type History struct {
	gw       HistoryGateway
	log      *zap.Logger
	pageSize int

	mu         sync.Mutex
	items      []gateway.MatchResult
	page       int
	totalPages int
	inFlight   bool
}

func NewHistory(gw HistoryGateway, log *zap.Logger, pageSize int) *History {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &History{
		gw:       gw,
		log:      log,
		pageSize: pageSize,
	}
}

// LoadPage fetches one page. Duplicate invocations while a load is in
// flight return ErrLoadInFlight without touching the network.
func (h *History) LoadPage(ctx context.Context, userID string, page int) error {
	if page < 1 {
		page = 1
	}

	h.mu.Lock()
	if h.inFlight {
		h.mu.Unlock()
		return ErrLoadInFlight
	}
	h.inFlight = true
	h.mu.Unlock()

	result, err := h.gw.GetHistory(ctx, userID, page, h.pageSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.inFlight = false

	if err != nil {
		return err
	}

	if page == 1 {
		h.items = append([]gateway.MatchResult(nil), result.Items...)
	} else {
		next := make([]gateway.MatchResult, len(h.items), len(h.items)+len(result.Items))
		copy(next, h.items)
		h.items = append(next, result.Items...)
	}

	h.page = result.Page
	if h.page == 0 {
		h.page = page
	}
	h.totalPages = result.TotalPages

	h.log.Debug("history page accumulated",
		zap.Int("page", h.page),
		zap.Int("total_pages", h.totalPages),
		zap.Int("accumulated", len(h.items)),
	)

	return nil
}

// LoadMore fetches the next page when the backend reported one.
func (h *History) LoadMore(ctx context.Context, userID string) error {
	h.mu.Lock()
	if h.page >= h.totalPages {
		h.mu.Unlock()
		return nil
	}
	page := h.page + 1
	h.mu.Unlock()

	return h.LoadPage(ctx, userID, page)
}

// HasMore derives from the backend-reported page count, never from the
// size of the last page: the final page may be short or exactly full.
func (h *History) HasMore() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.page < h.totalPages
}

// Items returns a copy of the accumulated list, newest first within
// each page, pages in fetch order.
func (h *History) Items() []gateway.MatchResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]gateway.MatchResult(nil), h.items...)
}

// Filter narrows the accumulated list by a case-insensitive substring
// over the job description and the matched résumé file name. It is a
// pure function of the fetched pages and the term.
func (h *History) Filter(term string) []gateway.MatchResult {
	items := h.Items()

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	filtered := make([]gateway.MatchResult, 0, len(items))
	for _, m := range items {
		if strings.Contains(strings.ToLower(m.JobDescription), term) ||
			strings.Contains(strings.ToLower(m.BestResume.FileName), term) {
			filtered = append(filtered, m)
		}
	}

	return filtered
}
