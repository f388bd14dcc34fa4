package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const maxRetries = 3

// sleepFunc is the sleep function used between retries (injectable for tests)
var sleepFunc = time.Sleep

// apiError carries the HTTP status of a failed backend call so retry logic
// can tell transient failures from permanent ones.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.status, e.message)
}

// withRetry runs fn with bounded retries and exponential backoff on
// transient failures. Non-retryable errors surface immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if err == nil || !isRetryableError(err) {
			return err
		}
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	return err
}

// isRetryableError returns true for transient upstream failures
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return isRetryableStatus(openaiErr.HTTPStatusCode)
	}

	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) {
		return isRetryableStatus(openaiReqErr.HTTPStatusCode)
	}

	var backendErr *apiError
	if errors.As(err, &backendErr) {
		return isRetryableStatus(backendErr.status)
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// isRetryableStatus returns true for 429 rate limits and 5xx server errors
func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status < 600
}
