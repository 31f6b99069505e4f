package envmanager

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// writeLocked replaces the content of path while holding an exclusive advisory
// lock on it. The data file is opened before the lock is taken and truncated
// only once the lock is held, so a failed open or lock never empties an
// existing file. A file created here and then left unlocked is removed.
func writeLocked(path string, data []byte, mode os.FileMode) (err error) {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, mode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		if created {
			_ = os.Remove(path)
		}
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
