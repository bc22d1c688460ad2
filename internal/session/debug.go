package session

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const maxBodyLogSize = 1024

// DebugLogger dumps requests and responses in verbose mode. A nil logger is
// a no-op.
type DebugLogger struct {
	out io.Writer
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogRequest(req *http.Request) {
	if d == nil {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n>>> REQUEST: %s %s\n", req.Method, req.URL.String())
	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			if len(body) > 0 {
				fmt.Fprintf(&buf, "  Body: %s\n", truncateBody(body))
			}
		}
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogResponse(resp *http.Response, body []byte, duration time.Duration) {
	if d == nil {
		return
	}

	var buf bytes.Buffer
	target := ""
	if resp.Request != nil {
		target = resp.Request.Method + " " + resp.Request.URL.String()
	}
	fmt.Fprintf(&buf, "<<< RESPONSE: %s (%s)\n", target, duration.Round(time.Millisecond))
	fmt.Fprintf(&buf, "  Status: %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	writeHeaders(&buf, resp.Header)
	if len(body) > 0 {
		fmt.Fprintf(&buf, "  Body: %s\n", truncateBody(body))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogError(method, url, errMsg string, duration time.Duration) {
	if d == nil {
		return
	}
	fmt.Fprintf(d.out, "!!! ERROR: %s %s (%s)\n  %s\n",
		method, url, duration.Round(time.Millisecond), errMsg)
}

func writeHeaders(buf *bytes.Buffer, h http.Header) {
	if len(h) == 0 {
		return
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	buf.WriteString("  Headers:\n")
	for _, name := range names {
		value := strings.Join(h[name], ", ")
		if strings.EqualFold(name, headerAuthorization) {
			value = maskAuthorization(value)
		}
		fmt.Fprintf(buf, "    %s: %s\n", name, value)
	}
}

// maskAuthorization keeps the scheme and the last four characters.
func maskAuthorization(v string) string {
	scheme, token, ok := strings.Cut(v, " ")
	if !ok {
		scheme, token = "", v
	}
	masked := "****"
	if len(token) > 8 {
		masked = "****" + token[len(token)-4:]
	}
	if scheme == "" {
		return masked
	}
	return scheme + " " + masked
}

func truncateBody(body []byte) string {
	if len(body) <= maxBodyLogSize {
		return string(body)
	}
	return string(body[:maxBodyLogSize]) + fmt.Sprintf("... (truncated, %d bytes total)", len(body))
}
