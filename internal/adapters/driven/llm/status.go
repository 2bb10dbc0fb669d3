// Package llm holds helpers shared by the grounded generator adapters.
package llm

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// maxDetail bounds how much of an error body ends up in a message.
const maxDetail = 300

// MaxResponseBytes caps a successful provider response body.
var MaxResponseBytes int64 = 8 << 20

// CheckResponse returns nil for a 2xx response. Otherwise it consumes the
// body and returns an error that matches both the provider's *googleapi.Error
// and a domain sentinel:
//
//	401, 403 -> domain.ErrAuthInvalid
//	429      -> domain.ErrRateLimited
//	5xx      -> domain.ErrServiceFailure
func CheckResponse(resp *http.Response) error {
	err := googleapi.CheckResponse(resp)
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	// Error bodies differ per provider; the HTTP status is authoritative.
	apiErr.Code = resp.StatusCode
	apiErr.Header = resp.Header
	if apiErr.Message == "" {
		apiErr.Message = truncate(strings.TrimSpace(apiErr.Body))
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, apiErr)
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, apiErr)
	case apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", domain.ErrServiceFailure, apiErr)
	default:
		return apiErr
	}
}

// ReadBody reads a successful response body, failing with
// domain.ErrServiceFailure once it exceeds MaxResponseBytes.
func ReadBody(resp *http.Response) ([]byte, error) {
	limit := MaxResponseBytes
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes: %w", limit, domain.ErrServiceFailure)
	}
	return raw, nil
}

// StatusCode extracts the HTTP status from an error built by CheckResponse.
// It returns 0 when err carries no status.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// RetryAfter returns the Retry-After delay carried by an error built by
// CheckResponse, or 0 when there is none. Only the delta-seconds form is read.
func RetryAfter(err error) time.Duration {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(strings.TrimSpace(apiErr.Header.Get("Retry-After")))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string) string {
	if len(s) <= maxDetail {
		return s
	}
	return s[:maxDetail] + "..."
}
