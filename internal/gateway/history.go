package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

type HistoryPage struct {
	Items      []MatchResult
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

type historyPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// GetHistory fetches one page of past matches. The backend answers
// either with a bare array (legacy) or with a {data, pagination}
// envelope; a bare array is treated as a single terminal page.
func (c *Client) GetHistory(ctx context.Context, userID string, page, pageSize int) (HistoryPage, error) {
	var result HistoryPage

	if err := requireUser(userID); err != nil {
		return result, err
	}
	if page < 1 {
		page = 1
	}

	q := userQuery(userID)
	q.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		q.Set("limit", strconv.Itoa(pageSize))
	}

	var raw any
	if err := c.getJSON(ctx, "/match/history", q, &raw); err != nil {
		return result, err
	}

	switch body := raw.(type) {
	case []any:
		items, err := decodeMatches(body)
		if err != nil {
			return result, err
		}
		result = HistoryPage{
			Items:      items,
			Page:       1,
			PageSize:   len(items),
			Total:      len(items),
			TotalPages: 1,
		}
	case map[string]any:
		items, err := decodeMatches(body["data"])
		if err != nil {
			return result, err
		}

		var pagination historyPagination
		if err := decodeLoose(body["pagination"], &pagination); err != nil {
			return result, fmt.Errorf("decoding pagination: %w", err)
		}

		result = HistoryPage{
			Items:      items,
			Page:       pagination.Page,
			PageSize:   pagination.Limit,
			Total:      pagination.Total,
			TotalPages: pagination.TotalPages,
		}
		if result.Page == 0 {
			result.Page = page
		}
	default:
		return result, fmt.Errorf("unexpected history response shape %T", raw)
	}

	c.logger.Debug("fetched history page",
		zap.Int("page", result.Page),
		zap.Int("total_pages", result.TotalPages),
		zap.Int("items", len(result.Items)),
	)

	return result, nil
}

func decodeMatches(raw any) ([]MatchResult, error) {
	if raw == nil {
		return nil, nil
	}

	var items []MatchResult
	if err := decodeLoose(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding history items: %w", err)
	}

	return items, nil
}

// decodeLoose maps generic JSON values onto typed structs by their json
// tags. Weak typing is on because JSON numbers arrive as float64.
func decodeLoose(raw any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(raw)
}
