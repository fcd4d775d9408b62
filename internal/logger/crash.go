package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// CrashLogDir is the directory for crash logs relative to the data directory
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10
)

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// CrashHandler recovers panics, logs them and writes a crash file.
type CrashHandler struct {
	Dir     string
	Version string
	Command string
	Logger  *zap.Logger
}

// Handle is meant to be deferred. It exits with status 1 after a panic.
func (h CrashHandler) Handle() {
	r := recover()
	if r == nil {
		return
	}
	entry := h.newCrashLog(r)
	path, err := h.write(entry)

	l := h.Logger
	if l == nil {
		l = zap.NewNop()
	}
	l.Error("unexpected panic",
		zap.String("command", entry.Command),
		zap.String("panic", entry.PanicValue),
		zap.String("crash_log", path),
		zap.Error(err),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, entry.StackTrace)
	} else {
		fmt.Fprintf(os.Stderr, "planwing crashed; details saved to %s\n", path)
	}
	os.Exit(1)
}

func (h CrashHandler) newCrashLog(panicValue any) CrashLog {
	return CrashLog{
		Timestamp:  time.Now(),
		Version:    h.Version,
		Command:    h.Command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// write stores entry as JSON and prunes old crash logs.
func (h CrashHandler) write(entry CrashLog) (string, error) {
	dir := filepath.Join(h.Dir, CrashLogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	_ = cleanOldCrashLogs(dir, MaxCrashLogs-1)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("crash_%s.json", entry.Timestamp.Format("20060102_150405.000")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

// cleanOldCrashLogs removes the oldest crash logs so at most keep remain.
func cleanOldCrashLogs(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	// timestamped names sort chronologically
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
