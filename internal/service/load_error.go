package service

import (
	"Mastosync/internal/pkg/mastodon"
	"errors"
	"fmt"
)

// LoadError 一页同步失败，调用方可以重试；本地数据保持不变
type LoadError struct {
	StatusCode int // 非 HTTP 错误时为 0
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load conversations: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("load conversations: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Retryable 同步错误都交给调用方决定是否重试
func (e *LoadError) Retryable() bool {
	return true
}

func newLoadError(err error) *LoadError {
	le := &LoadError{Err: err}
	var httpErr *mastodon.HTTPError
	if errors.As(err, &httpErr) {
		le.StatusCode = httpErr.StatusCode
	}
	return le
}
