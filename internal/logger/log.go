package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sizeLimit = 240 * 1024 // CloudWatch log size limit
	// request log type
	requestType = "request"
	truncated   = "TRUNCATED..."
	redacted    = "REDACTED"
)

// headers never written to the request log
var sensitiveHeaders = []string{"Authorization", "X-Jira-Token"}

// logRecord is the request log line
type logRecord struct {
	RequestID       string      `json:"requestId,omitempty"` // AwsRequestID when running on Lambda
	User            string      `json:"user,omitempty"`
	Timestamp       int64       `json:"timestamp"`
	Duration        int64       `json:"durationMs"`
	HTTPStatusCode  int         `json:"status"`
	ErrorStackTrace string      `json:"stack,omitempty"`
	HTTPMethod      string      `json:"method"`
	RequestPath     string      `json:"path"`
	RequestQuery    string      `json:"query,omitempty"`
	RequestBody     string      `json:"requestBody,omitempty"`
	ResponseBody    string      `json:"responseBody,omitempty"`
	Headers         http.Header `json:"headers,omitempty"`
	Type            string      `json:"type"` // keyword for logstash to identify the log as request log
}

func (record *logRecord) String() string {
	buf := bytes.NewBufferString("")
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(record); err != nil {
		GetLogger().Error("failed to encode log record", zap.Error(err))
		return "{}"
	}
	return buf.String()
}

// GinLogMiddleware prints one JSON line per request, including on panic.
// Request bodies of secretPaths are replaced with a placeholder.
func GinLogMiddleware(secretPaths ...string) gin.HandlerFunc {
	return ginLogMiddleware(func(s string) { fmt.Print(s) }, secretPaths)
}

func ginLogMiddleware(emit func(string), secretPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		record := initLogRecord(c)
		if slices.Contains(secretPaths, c.FullPath()) && record.RequestBody != "" {
			record.RequestBody = redacted
		}
		// overwrite the gin.Context.Writer to log response body
		w := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = w

		defer func() {
			emit(logTruncate(record))
		}()

		defer func() {
			if r := recover(); r != nil {
				record.HTTPStatusCode = http.StatusInternalServerError
				record.ErrorStackTrace = string(debug.Stack())
				// throw the panic to the later middlewares
				panic(r)
			}
		}()

		if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
			record.RequestID = lc.AwsRequestID
		}

		c.Next()

		record.HTTPStatusCode = c.Writer.Status()
		record.Duration = time.Now().UnixMilli() - record.Timestamp
		record.User = c.GetHeader("X-Jira-User")
		record.ResponseBody = w.body.String()
	}
}

func logTruncate(record *logRecord) string {
	logStr := record.String()
	if len(logStr) < sizeLimit {
		return logStr
	}
	respSize := len(record.ResponseBody)
	reqSize := len(record.RequestBody)
	// truncate response body first, then request body, then stack trace
	record.ResponseBody = truncated
	if len(logStr)-respSize > sizeLimit {
		record.RequestBody = truncated
	}
	if len(logStr)-respSize-reqSize > sizeLimit {
		record.ErrorStackTrace = truncated
	}
	return record.String()
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(c *gin.Context) *logRecord {
	var requestBody []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			GetLogger().Warn("failed to read request body for logging", zap.Error(err))
		}
		requestBody = b
		// reattach request body for later use
		c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
	}

	headers := c.Request.Header.Clone()
	for _, h := range sensitiveHeaders {
		if headers.Get(h) != "" {
			headers.Set(h, redacted)
		}
	}

	return &logRecord{
		Timestamp:    time.Now().UnixMilli(),
		HTTPMethod:   c.Request.Method,
		RequestPath:  c.Request.URL.Path,
		RequestQuery: c.Request.URL.Query().Encode(),
		RequestBody:  string(requestBody),
		Type:         requestType,
		Headers:      headers,
	}
}
