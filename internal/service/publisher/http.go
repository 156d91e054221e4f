package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// DefaultClient is shared by the platform shims; per-call deadlines come
// from the context the dispatcher passes in.
var DefaultClient = &http.Client{}

// PostJSON sends an authorized JSON request and returns the raw response.
// Transport-level failures are classified as transient.
func PostJSON(ctx context.Context, platform models.Platform, url, token string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, &Error{Kind: ErrValidation, Platform: platform, Message: "cannot encode request payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &Error{Kind: ErrUnknown, Platform: platform, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Kind: ErrTransientNetwork, Platform: platform, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, &Error{Kind: ErrTransientNetwork, Platform: platform, Err: err}
	}

	return resp.StatusCode, data, nil
}

// ClassifyStatus maps a non-2xx platform response to a classified error.
func ClassifyStatus(platform models.Platform, status int, body []byte) *Error {
	msg := fmt.Sprintf("unexpected status %d: %s", status, truncate(body, 200))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: ErrAuth, Platform: platform, Message: msg}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: ErrRateLimited, Platform: platform, Message: msg}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &Error{Kind: ErrValidation, Platform: platform, Message: msg}
	case status >= 500:
		return &Error{Kind: ErrTransientNetwork, Platform: platform, Message: msg}
	default:
		return &Error{Kind: ErrUnknown, Platform: platform, Message: msg}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
