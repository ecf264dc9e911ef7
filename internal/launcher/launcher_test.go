package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	httpadapter "github.com/mtp-labs/bootship/internal/adapters/http"
	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/pkg/log"
)

// recLogger captures messages and field values for assertions.
type recLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recLogger) record(msg string, fields ...log.Field) {
	var b strings.Builder
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.mu.Lock()
	l.entries = append(l.entries, b.String())
	l.mu.Unlock()
}

func (l *recLogger) Debug(msg string, fields ...log.Field) { l.record(msg, fields...) }
func (l *recLogger) Info(msg string, fields ...log.Field)  { l.record(msg, fields...) }
func (l *recLogger) Warn(msg string, fields ...log.Field)  { l.record(msg, fields...) }
func (l *recLogger) Error(msg string, fields ...log.Field) { l.record(msg, fields...) }

func (l *recLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// fakeSpawner writes the log sink and reports a fixed pid.
type fakeSpawner struct {
	pid        int
	err        error
	logContent string
}

func (f *fakeSpawner) Spawn(command string, args []string, logPath string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(logPath, []byte(f.logContent), 0o644); err != nil {
		return 0, err
	}
	return f.pid, nil
}

func newTestLauncher(spawner *fakeSpawner, logger log.Logger) *Launcher {
	client := &http.Client{Timeout: 250 * time.Millisecond}
	l := New(spawner, httpadapter.NewProber(client), nil, logger)
	l.PollInterval = 10 * time.Millisecond
	l.AttemptTimeout = 250 * time.Millisecond
	return l
}

func TestLaunch_ReadyOnNthAttempt(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 4 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := newTestLauncher(&fakeSpawner{pid: 4242}, log.NewNoopLogger())
	handle, err := l.Launch(context.Background(), Spec{
		Command:   "tracking",
		LogPath:   filepath.Join(t.TempDir(), "svc.log"),
		HealthURL: srv.URL,
		Port:      9,
		Timeout:   2 * time.Second,
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if handle.PID != 4242 {
		t.Fatalf("unexpected pid %d", handle.PID)
	}
	if got := attempts.Load(); got < 4 {
		t.Fatalf("expected at least 4 probe attempts, got %d", got)
	}
}

func TestLaunch_TimeoutBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger := &recLogger{}
	l := newTestLauncher(&fakeSpawner{pid: 1, logContent: "binding socket\nstill warming up\n"}, logger)

	timeout := 100 * time.Millisecond
	start := time.Now()
	_, err := l.Launch(context.Background(), Spec{
		Command:   "tracking",
		LogPath:   filepath.Join(t.TempDir(), "svc.log"),
		HealthURL: srv.URL,
		Port:      9,
		Timeout:   timeout,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, domain.ErrReadinessTimeout) {
		t.Fatalf("expected ErrReadinessTimeout, got %v", err)
	}
	if elapsed < timeout {
		t.Fatalf("returned before the deadline: %s", elapsed)
	}
	if elapsed > timeout+l.PollInterval+500*time.Millisecond {
		t.Fatalf("returned far past the deadline: %s", elapsed)
	}

	// The log tail is surfaced as diagnostics.
	if !logger.contains("still warming up") {
		t.Fatalf("log tail not surfaced: %v", logger.entries)
	}
}

func TestLaunch_UnreachableEndpoint(t *testing.T) {
	l := newTestLauncher(&fakeSpawner{pid: 1}, log.NewNoopLogger())

	// Port 1 is never listening.
	_, err := l.Launch(context.Background(), Spec{
		Command:   "tracking",
		LogPath:   filepath.Join(t.TempDir(), "svc.log"),
		HealthURL: "http://127.0.0.1:1/",
		Port:      1,
		Timeout:   60 * time.Millisecond,
	})
	if !errors.Is(err, domain.ErrReadinessTimeout) {
		t.Fatalf("expected ErrReadinessTimeout, got %v", err)
	}
}

func TestLaunch_SpawnFailure(t *testing.T) {
	spawner := &fakeSpawner{err: errors.New("no such binary")}
	l := newTestLauncher(spawner, log.NewNoopLogger())

	_, err := l.Launch(context.Background(), Spec{Command: "tracking", Timeout: time.Second})
	if !errors.Is(err, domain.ErrLaunchFailed) {
		t.Fatalf("expected ErrLaunchFailed, got %v", err)
	}
}

func TestLaunch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	l := newTestLauncher(&fakeSpawner{pid: 1}, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Launch(ctx, Spec{
		Command:   "tracking",
		LogPath:   filepath.Join(t.TempDir(), "svc.log"),
		HealthURL: srv.URL,
		Timeout:   time.Minute,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
