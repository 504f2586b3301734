package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the toy service packages. Lines look like
//
//	2024-05-01T12:00:00Z [INFO] message key=value ...
//
// The level is process-wide and set once with Init.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "info"
}

var (
	mu     sync.RWMutex
	logger = log.New(os.Stdout, "", 0)
	level  = LevelInfo
	exit   = os.Exit
)

// ParseLevel maps debug|info|warn|warning|error|fatal (any case) to a Level.
// Unknown input yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Init sets the global log level. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(l Level, msg string) {
	logger.Printf("%s [%s] %s", time.Now().UTC().Format(time.RFC3339), strings.ToUpper(l.String()), msg)
}

func logf(l Level, format string, v ...interface{}) {
	if !enabled(l) {
		return
	}
	emit(l, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, format, v...) }

// Fatalf always logs, then exits with status 1.
func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, fmt.Sprintf(format, v...))
	exit(1)
}

// Logw logs msg followed by key=value pairs. A trailing key without a value
// is printed as key=MISSING. Values containing spaces are quoted.
func Logw(l Level, msg string, kv ...interface{}) {
	if !enabled(l) {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		val := "MISSING"
		if i+1 < len(kv) {
			val = fmt.Sprint(kv[i+1])
		}
		if val == "" || strings.ContainsAny(val, " \t\"=") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&b, " %v=%s", kv[i], val)
	}
	emit(l, b.String())
}
