package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Permission modes used for generated files.
const (
	ModeReadOnly os.FileMode = 0444
	ModeWritable os.FileMode = 0666
	ModeDefault  os.FileMode = 0644
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WithWritable relaxes the mode of path to ModeWritable, runs fn, and restores
// the mode the file had before the call. The restore runs even when fn fails
// or panics. An error from fn takes precedence over a restore error.
func WithWritable(path string, fn func() error) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	prev := info.Mode().Perm()

	if err := Chmod(path, ModeWritable); err != nil {
		return fmt.Errorf("making %s writable: %w", path, err)
	}
	defer func() {
		if rerr := Chmod(path, prev); rerr != nil && err == nil {
			err = fmt.Errorf("restoring mode of %s: %w", path, rerr)
		}
	}()

	return fn()
}

// WriteReadOnly writes data to path and leaves the file with ModeReadOnly.
// An existing read-only file is made writable first.
func WriteReadOnly(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		if err := Chmod(path, ModeWritable); err != nil {
			return fmt.Errorf("making %s writable: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, ModeDefault); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return Chmod(path, ModeReadOnly)
}

// Remove deletes a generated file even when it is read-only.
func Remove(path string) error {
	if err := Chmod(path, ModeWritable); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
