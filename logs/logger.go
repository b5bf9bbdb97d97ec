// Package logs builds the structured logger used by the command line.
package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
	"golang.org/x/term"
)

// ParseLevel returns the level for a name: debug, info, warn or error.
func ParseLevel(name string) (level slog.Level, err error) {
	err = level.UnmarshalText([]byte(name))
	return
}

// New creates a logger writing to w, at the given level.
//
// Records go to a text handler when w is a terminal, and a JSON handler
// otherwise. When running as a systemd service, records also go to the
// journal.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	var handlers []slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// local
	var terminalHandler slog.Handler
	if IsTerminal(w) {
		terminalHandler = slog.NewTextHandler(w, opts)
	} else {
		terminalHandler = slog.NewJSONHandler(w, opts)
	}
	handlers = append(handlers, terminalHandler)

	// systemd journal
	if IsSystemdService() {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsSystemdService returns true if the process runs in a systemd service
// cgroup.
func IsSystemdService() bool {
	cgroupPath, err := getCgroupPath()
	if err != nil {
		return false
	}
	return strings.HasSuffix(path.Dir(cgroupPath), ".service")
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

func getCgroupPath() (string, error) {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}
