package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to logPath. When echo is set the log is
// mirrored to stdout. With an empty path and no echo, log output is discarded.
func Init(logPath string, echo bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if echo {
		writers = append(writers, os.Stdout)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogFields writes a single "[EVENT] key=value ..." line. Keys and values
// alternate; a trailing key without a value is logged as missing.
func LogFields(event string, kv ...any) {
	log.Println(buildFieldsMessage(event, kv...))
}

func buildFieldsMessage(event string, kv ...any) string {
	name := strings.ToUpper(strings.TrimSpace(event))
	if name == "" {
		name = "EVENT"
	}
	parts := []string{fmt.Sprintf("[%s]", name)}
	for i := 0; i < len(kv); i += 2 {
		key := strings.TrimSpace(fmt.Sprint(kv[i]))
		if key == "" {
			key = "field"
		}
		if i+1 >= len(kv) {
			parts = append(parts, fmt.Sprintf("%s=(missing)", key))
			break
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, formatValue(kv[i+1])))
	}
	return strings.Join(parts, " ")
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case error:
		return fmt.Sprintf("%q", v.Error())
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		if strings.ContainsAny(v, " \t\n\"") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
