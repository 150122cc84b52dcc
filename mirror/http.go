package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultHTTPField = "minutes_spent"
	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// HTTP mirrors minutes into a JSON REST resource at {BaseURL}/tasks/{id}. The
// field is read with GET and written with a PATCH carrying only that field.
type HTTP struct {
	client  *http.Client
	BaseURL string
	Field   string
}

// NewHTTP returns an HTTP mirror. When token is non-empty every request
// carries it as a bearer token.
func NewHTTP(baseURL, field, token string, timeout time.Duration) *HTTP {
	if field == "" {
		field = defaultHTTPField
	}

	client := &http.Client{Timeout: timeout}

	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
		))
		client.Timeout = timeout
	}

	return &HTTP{
		client:  client,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Field:   field,
	}
}

func (h *HTTP) taskURL(vendorTaskID string) string {
	return h.BaseURL + "/tasks/" + url.PathEscape(vendorTaskID)
}

func (h *HTTP) do(req *http.Request, vendorTaskID string) ([]byte, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errTaskNotFound.Fmt(vendorTaskID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUnexpectedStatus.Fmt(resp.StatusCode, req.URL.Redacted())
	}

	return body, nil
}

func (h *HTTP) ReadMinutes(ctx context.Context, vendorTaskID string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.taskURL(vendorTaskID), http.NoBody)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Accept", "application/json")

	body, err := h.do(req, vendorTaskID)
	if err != nil {
		return 0, err
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, fmt.Errorf("failed to decode task %s: %w", vendorTaskID, err)
	}

	return numericField(obj, h.Field, vendorTaskID)
}

func (h *HTTP) WriteMinutes(ctx context.Context, vendorTaskID string, minutes float64) error {
	payload, err := json.Marshal(map[string]float64{h.Field: minutes})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPatch,
		h.taskURL(vendorTaskID),
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	_, err = h.do(req, vendorTaskID)

	return err
}

var _ Client = (*HTTP)(nil)
