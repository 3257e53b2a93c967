package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

func lookup(name string, log *logger.Logger) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	if log != nil {
		if !ok || v == "" {
			log.Debug("Environment variable not set, using default", "env_var", name)
		} else {
			log.Debug("Environment variable found", "env_var", name)
		}
	}
	return v, ok && v != ""
}

func String(name, def string, log ...*logger.Logger) string {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	return v
}

func Int(name string, def int, log ...*logger.Logger) int {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		warnParse(first(log), name, v, err)
		return def
	}
	return i
}

func Float(name string, def float64, log ...*logger.Logger) float64 {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnParse(first(log), name, v, err)
		return def
	}
	return f
}

// Bool accepts the usual truthy/falsy spellings (1/0, true/false, yes/no,
// on/off).
func Bool(name string, def bool, log ...*logger.Logger) bool {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		warnParse(first(log), name, v, nil)
		return def
	}
}

// Duration parses Go duration syntax and falls back to whole seconds.
func Duration(name string, def time.Duration, log ...*logger.Logger) time.Duration {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	warnParse(first(log), name, v, nil)
	return def
}

// List splits a comma separated variable and drops empty items.
func List(name string, def []string, log ...*logger.Logger) []string {
	v, ok := lookup(name, first(log))
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func first(log []*logger.Logger) *logger.Logger {
	if len(log) == 0 {
		return nil
	}
	return log[0]
}

func warnParse(log *logger.Logger, name, raw string, err error) {
	if log == nil {
		return
	}
	log.Warn("Environment variable could not be parsed, using default", "env_var", name, "provided", raw, "error", err)
}
