package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLog struct {
	Time     string `json:"time"`
	Level    string `json:"level"`
	Msg      string `json:"msg"`
	TraceID  string `json:"trace_id,omitempty"`
	ClientIP string `json:"client_ip"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Latency  string `json:"latency"`
	BodySize int    `json:"body_size"`
	Error    string `json:"error,omitempty"`
}

// formatAccessLog 输出与 slog JSON 同构的一行访问日志，5xx 记为 ERROR
func formatAccessLog(p gin.LogFormatterParams) string {
	entry := accessLog{
		Time:     p.TimeStamp.Format(time.RFC3339),
		Level:    "INFO",
		Msg:      "GIN_ACCESS",
		ClientIP: p.ClientIP,
		Method:   p.Method,
		Path:     p.Path,
		Status:   p.StatusCode,
		Latency:  p.Latency.String(),
		BodySize: p.BodySize,
		Error:    p.ErrorMessage,
	}
	if p.StatusCode >= 500 {
		entry.Level = "ERROR"
	}
	if id, ok := p.Keys[string(TraceIDKey)].(string); ok {
		entry.TraceID = id
	} else if p.Request != nil {
		entry.TraceID, _ = p.Request.Context().Value(TraceIDKey).(string)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(line) + "\n"
}

// SetupGin 访问日志与 panic 恢复，健康检查不记录
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/api/ping"},
		Formatter: formatAccessLog,
	}))
	r.Use(gin.Recovery())
}
