package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const contentType = "application/json"

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	return c.send(c.HTTPClient, c.setHeaders(req, contentType), q, target)
}

func (c *Client) postJSON(ctx context.Context, path string, q url.Values, body any, target any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+path, &buf)
	if err != nil {
		return err
	}

	return c.send(c.HTTPClient, c.setHeaders(req, contentType), q, target)
}

func (c *Client) sendNoBody(ctx context.Context, method, path string, q url.Values) error {
	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	return c.send(c.HTTPClient, c.setHeaders(req, contentType), q, nil)
}

// postMultipart uploads one file plus form fields. It uses the upload
// client with its longer timeout.
func (c *Client) postMultipart(ctx context.Context, path string, q url.Values, fields map[string]string, fileField, fileName string, file io.Reader, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return err
		}
	}

	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return err
	}
	if _, err = io.Copy(part, file); err != nil {
		return err
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+path, &b)
	if err != nil {
		return err
	}

	return c.send(c.UploadClient, c.setHeaders(req, w.FormDataContentType()), q, target)
}

// send performs the request and decodes the response into target when
// one is wanted. Transport failures become NetworkError, non-2xx
// statuses become ServerError.
func (c *Client) send(client *http.Client, req *http.Request, q url.Values, target any) error {
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("request to backend",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    extractDetail(data),
		}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)

	return req
}

// extractDetail pulls a human message out of an error body. The backend
// answers with {"detail": ...} (FastAPI style) but {"error": ...} and
// {"message": ...} are seen behind proxies.
func extractDetail(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v
		}
	}

	return ""
}

func userQuery(userID string) url.Values {
	q := url.Values{}
	q.Set(userIDParam, userID)

	return q
}

func requireUser(userID string) error {
	if userID == "" {
		return &ValidationError{Field: "user id", Reason: "must not be empty"}
	}

	return nil
}
