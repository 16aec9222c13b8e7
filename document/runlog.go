package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is created in the document directory while a run holds it.
const LockFileName = ".payroll.lock"

// ErrDirLocked is returned when another process is running payroll
// against the same document directory.
var ErrDirLocked = errors.New("payroll document directory is locked by another run")

// OpenRunLog creates <dir>/logs/<stamp>.log and returns a logger writing to
// it. The caller closes the returned closer.
func OpenRunLog(dir string, startedAt time.Time) (*log.Logger, io.Closer, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(logDir, startedAt.Format(StampLayout)+".log")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open run log: %w", err)
	}
	return log.New(f, "[payroll] ", log.LstdFlags|log.Lmsgprefix), f, nil
}

// LockDir takes an exclusive lock on the document directory, waiting up to
// timeout for a concurrent run to finish.
func LockDir(ctx context.Context, dir string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFileName))
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, ErrDirLocked
	}
	return lock, nil
}
