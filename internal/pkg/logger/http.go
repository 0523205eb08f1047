package logger

import (
	log "log/slog"
	"net/http"
	"time"
)

// HTTPTransport 记录出站请求的基础信息（方法、URL、状态码、耗时），不记录报文
type HTTPTransport struct {
	Transport http.RoundTripper
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	log.DebugContext(req.Context(), "--> HTTP",
		log.String("method", req.Method),
		log.String("url", req.URL.Redacted()),
	)

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("url", req.URL.Redacted()),
		log.Duration("latency", elapsed),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "<-- HTTP FAILED", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode), log.Int64("content_length", resp.ContentLength))
	if elapsed > 2*time.Second {
		log.WarnContext(req.Context(), "<-- HTTP SLOW", fields...)
	} else {
		log.InfoContext(req.Context(), "<-- HTTP", fields...)
	}

	return resp, nil
}
