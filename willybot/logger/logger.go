package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeTask    LogType = "TASK"
	TypeError   LogType = "ERR"
)

// Gateway chatter that is never worth printing.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

// CustomHandler prints one coloured line per record:
// [WillyBot] [15:04:05] [LEVEL] [TYPE] message key=value
type CustomHandler struct {
	level slog.Leveler
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewHandler(level slog.Leveler) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, level)
}

func NewHandlerWithWriter(w io.Writer, level slog.Leveler) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		level: level,
		out:   w,
		mu:    &sync.Mutex{},
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CustomHandler{level: h.level, out: h.out, mu: h.mu, attrs: merged, group: h.group}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &CustomHandler{level: h.level, out: h.out, mu: h.mu, attrs: h.attrs, group: group}
}

// recordInfo holds the attributes the handler renders specially.
type recordInfo struct {
	logType  LogType
	name     string
	userName string
	status   string
	err      string
	location string
	took     time.Duration
	extra    []string
}

func (h *CustomHandler) collect(r *slog.Record) recordInfo {
	info := recordInfo{logType: TypeSystem}
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			info.logType = parseLogType(a.Value.String())
		case "name":
			info.name = a.Value.String()
		case "user_name":
			info.userName = a.Value.String()
		case "status":
			info.status = a.Value.String()
		case "error":
			info.err = fmt.Sprintf("%v", a.Value.Any())
		case "error_location":
			info.location = a.Value.String()
		case "took":
			if a.Value.Kind() == slog.KindDuration {
				info.took = a.Value.Duration()
			}
		default:
			key := a.Key
			if h.group != "" {
				key = h.group + "." + key
			}
			info.extra = append(info.extra, fmt.Sprintf("%s=%v", key, a.Value))
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)
	return info
}

func parseLogType(v string) LogType {
	switch v {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "task":
		return TypeTask
	case "error":
		return TypeError
	}
	return TypeSystem
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	levelColor, levelText := colorWhite, r.Level.String()
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	info := h.collect(&r)
	message := r.Message
	if r.Level >= slog.LevelError {
		if info.location == "" {
			info.location = sourceLocation(r.PC)
		}
		if info.location != "" {
			message = fmt.Sprintf("%s (%s)", message, info.location)
		}
		if info.err != "" {
			message = fmt.Sprintf("%s: %s", message, info.err)
		}
	} else if info.err != "" {
		info.extra = append(info.extra, "error="+info.err)
	}
	if info.name != "" && info.userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, info.name, info.userName)
	} else if info.name != "" {
		message = fmt.Sprintf("%s [%s]", message, info.name)
	}
	if info.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, info.status)
	}
	if info.took > 0 {
		message = fmt.Sprintf("%s (took %dms)", message, info.took.Milliseconds())
	}

	var attrs string
	if len(info.extra) > 0 {
		attrs = " " + colorCyan + strings.Join(info.extra, " ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[WillyBot] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		r.Time.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		info.logType,
		message,
		attrs,
		colorReset,
	)
	return err
}

func shouldSkipLog(msg string) bool {
	lower := strings.ToLower(msg)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
