package util

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFile marks an application as being edited.
type LockFile struct {
	User      string `yaml:"user"`
	Pid       int    `yaml:"pid"`
	TimeStamp string `yaml:"timestamp"`
}

// ErrLocked is returned when someone else holds the lock.
var ErrLocked = errors.New("file is locked")

// LockPath is the lock file used for path.
func LockPath(path string) string {
	return path + ".lock"
}

// CreateLockFile takes the lock for path. It fails with ErrLocked, naming
// the holder, when the lock file already exists.
func CreateLockFile(path string) (func(), error) {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "unknown"
	}

	lock := LockFile{
		User:      user,
		Pid:       os.Getpid(),
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}
	info, err := yaml.Marshal(&lock)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	lockName := LockPath(path)
	f, err := os.OpenFile(lockName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		holder, readErr := ReadLockFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockName)
		}
		return nil, fmt.Errorf("%w by %s (pid %d) since %s", ErrLocked, holder.User, holder.Pid, holder.TimeStamp)
	} else if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	if _, err := f.Write(info); err != nil {
		f.Close()
		os.Remove(lockName)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(lockName)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return func() { os.Remove(lockName) }, nil
}

func ReadLockFile(path string) (LockFile, error) {
	data, err := os.ReadFile(LockPath(path))
	if err != nil {
		return LockFile{}, fmt.Errorf("failed to read lock file: %w", err)
	}
	var lock LockFile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return LockFile{}, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return lock, nil
}
