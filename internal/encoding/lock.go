package encoding

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"substudio/internal/services"
)

// LockFileName is the lock file created in the output directory while a render
// is writing there.
const LockFileName = ".substudio.lock"

// acquireOutputLock takes the output-directory lock without waiting.
func acquireOutputLock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "encoding", "prepare output", "failed to create output directory", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "encoding", "lock output", "failed to lock output directory", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "encoding", "lock output",
			fmt.Sprintf("another render is writing to %s", dir), nil)
	}
	return lock, nil
}
