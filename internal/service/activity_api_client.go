package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"activityboard/internal/domain"
	apperrors "activityboard/pkg/errors"
	"activityboard/pkg/logger"
)

// maxResponseBytes caps how much of an API response is read
const maxResponseBytes = 4 << 20

// ActivityAPIClient handles all interactions with the activities API
type ActivityAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewActivityAPIClient creates a client for the API rooted at baseURL
func NewActivityAPIClient(baseURL string, timeout time.Duration, logger *logger.Logger) *ActivityAPIClient {
	return &ActivityAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetActivities calls GET /activities
func (c *ActivityAPIClient) GetActivities(ctx context.Context) (domain.Catalog, error) {
	body, err := c.read(ctx, "/activities")
	if err != nil {
		return domain.Catalog{}, err
	}

	if !gjson.ValidBytes(body) {
		return domain.Catalog{}, apperrors.NewExternalError("failed to parse activities response", fmt.Errorf("invalid JSON"))
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.Catalog{}, apperrors.NewExternalError("failed to parse activities response", fmt.Errorf("expected object, got %s", root.Type))
	}

	// ForEach walks keys in document order, which is the order the board displays.
	var (
		activities []domain.Activity
		decodeErr  error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		var a domain.Activity
		if err := json.Unmarshal([]byte(value.Raw), &a); err != nil {
			decodeErr = fmt.Errorf("activity %q: %w", key.String(), err)
			return false
		}
		a.Name = key.String()
		activities = append(activities, a)
		return true
	})
	if decodeErr != nil {
		return domain.Catalog{}, apperrors.NewExternalError("failed to parse activities response", decodeErr)
	}

	c.logger.WithField("activities", len(activities)).Debug("Fetched activities")
	return domain.NewCatalog(activities...), nil
}

// GetRankings calls GET /rankings
func (c *ActivityAPIClient) GetRankings(ctx context.Context) ([]domain.RankingEntry, error) {
	body, err := c.read(ctx, "/rankings")
	if err != nil {
		return nil, err
	}

	var rankings []domain.RankingEntry
	if err := json.Unmarshal(body, &rankings); err != nil {
		return nil, apperrors.NewExternalError("failed to parse rankings response", err)
	}

	c.logger.WithField("rankings", len(rankings)).Debug("Fetched rankings")
	return rankings, nil
}

// Signup calls POST /activities/{name}/signup?email=
func (c *ActivityAPIClient) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodPost, activityActionPath(activity, "signup", email))
}

// Unregister calls DELETE /activities/{name}/unregister?email=
func (c *ActivityAPIClient) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodDelete, activityActionPath(activity, "unregister", email))
}

// activityActionPath escapes the activity as a single path segment and the email as a query value
func activityActionPath(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?" + url.Values{"email": {email}}.Encode()
}

// read performs a GET and returns the body of a 2xx response
func (c *ActivityAPIClient) read(ctx context.Context, path string) ([]byte, error) {
	status, body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("activities API returned status %d for %s", status, path),
			fmt.Errorf("%s", truncate(string(body), 200)))
	}
	return body, nil
}

// mutate performs a signup/unregister call. A JSON reply is decoded whatever the status;
// a non-JSON reply is a parse failure.
func (c *ActivityAPIClient) mutate(ctx context.Context, method, path string) (string, error) {
	status, body, err := c.do(ctx, method, path)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		c.logger.WithFields(map[string]interface{}{
			"status_code":   status,
			"response_body": truncate(string(body), 200),
		}).Error("Failed to parse activities API response")
		return "", apperrors.NewExternalError("failed to parse activities API response", fmt.Errorf("status %d: invalid JSON", status))
	}

	if status >= 200 && status <= 299 {
		return gjson.GetBytes(body, "message").String(), nil
	}

	detail := gjson.GetBytes(body, "detail")
	text := ""
	if detail.Type == gjson.String {
		text = detail.Str
	}
	return "", apperrors.NewRejectedError(status, text)
}

func (c *ActivityAPIClient) do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, apperrors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.NewExternalError("failed to call activities API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, apperrors.NewExternalError("failed to read activities API response", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"path":        req.URL.Path,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Activities API call")

	return resp.StatusCode, body, nil
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
