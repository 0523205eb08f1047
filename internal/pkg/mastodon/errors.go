package mastodon

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// HTTPError 非 2xx 响应或响应体为空
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
}

func newHTTPError(resp *resty.Response, message string) *HTTPError {
	e := &HTTPError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Message:    message,
	}
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil && e.Message == "" {
		e.Message = apiErr.Error
	}
	return e
}
