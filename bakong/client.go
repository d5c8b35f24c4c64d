// Package bakong talks to the National Bank of Cambodia's Bakong open
// API to check whether a KHQR transaction has settled. Transactions are
// looked up by the md5 fingerprint of the QR payload.
package bakong

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable covers transport failures, non-200 replies and bodies
// that are not JSON. Callers surface it as a gateway error rather than
// a payment verdict.
var ErrUnavailable = errors.New("bakong gateway unavailable")

const checkPath = "/v1/check_transaction_by_md5"

// Client is a thin HTTP client for the transaction-status endpoint.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckTransaction reports whether the transaction behind the given
// fingerprint has been paid. A false result with a nil error means the
// gateway answered but the payment has not settled yet.
func (c *Client) CheckTransaction(ctx context.Context, fingerprint string) (bool, error) {
	body, err := json.Marshal(map[string]string{"md5": fingerprint})
	if err != nil {
		return false, fmt.Errorf("encode check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkPath, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return isPaid(payload), nil
}

// isPaid probes both the top level object and the nested data object.
// The gateway has answered with either shape depending on endpoint
// version: sometimes an explicit transaction_status or trackingStatus
// of SUCCESS, sometimes just responseCode 0 together with a settlement
// timestamp. Both conditions count.
func isPaid(payload map[string]any) bool {
	sections := []map[string]any{payload}
	if data, ok := payload["data"].(map[string]any); ok {
		sections = append(sections, data)
	}

	codeZero := false
	timestamped := false
	for _, s := range sections {
		if statusSuccess(s["transaction_status"]) || statusSuccess(s["trackingStatus"]) {
			return true
		}
		if code, ok := numericValue(s["responseCode"]); ok && code == 0 {
			codeZero = true
		}
		if hasValue(s["acknowledgedDateMs"]) || hasValue(s["createdDateMs"]) {
			timestamped = true
		}
	}
	return codeZero && timestamped
}

func statusSuccess(v any) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(s, "SUCCESS")
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
