package launcher

import (
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mtp-labs/bootship/pkg/log"
)

// Follower tails the service's log sink while the readiness gate polls,
// surfacing appended lines so startup progress is visible on the console.
// Best effort: if watching fails the launcher continues without it.
type Follower struct {
	path   string
	logger log.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	offset  int64
	partial string
}

// NewFollower creates a follower for the given log file.
func NewFollower(path string, logger log.Logger) *Follower {
	return &Follower{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start begins following from the file's current end.
func (f *Follower) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(f.path); err != nil {
		watcher.Close()
		return err
	}
	f.watcher = watcher

	if info, err := os.Stat(f.path); err == nil {
		f.offset = info.Size()
	}

	f.wg.Add(1)
	go f.loop()
	return nil
}

// Stop stops following and waits for the loop to exit.
func (f *Follower) Stop() {
	close(f.done)
	f.watcher.Close()
	f.wg.Wait()
}

func (f *Follower) loop() {
	defer f.wg.Done()

	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write != 0 {
				f.emit()
			}
		case _, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// emit reads everything appended since the last read and logs each
// complete line. An unterminated final line is carried to the next read.
func (f *Follower) emit() {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		return
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, 0); err != nil {
		return
	}

	buf := make([]byte, 64*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			f.offset += int64(n)
			f.partial += string(buf[:n])
		}
		if err != nil {
			break
		}
	}

	for {
		idx := strings.IndexByte(f.partial, '\n')
		if idx < 0 {
			break
		}
		line := f.partial[:idx]
		f.partial = f.partial[idx+1:]
		if line != "" {
			f.logger.Debug("tracking server", log.String("line", line))
		}
	}
}
