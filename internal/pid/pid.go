package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/nfehr/enviroctl/internal/errors"
)

const pidFile = "enviroctl.pid"

// Path returns the PID file location. The daemon prefers the user
// runtime directory so the file disappears with the session; without
// one it falls back to the system temp dir.
func Path() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, pidFile)
	}

	return filepath.Join(os.TempDir(), pidFile)
}

// Write claims the PID file for the current process. A file left behind
// by a dead process is overwritten; a live holder aborts the start.
func Write() error {
	errFactory := errors.New()
	path := Path()

	if holder, ok, err := currentHolder(path); err != nil {
		return err
	} else if ok {
		return errFactory.WithData(errors.ErrAlreadyRunning, struct {
			PID  int
			Path string
		}{
			PID:  holder,
			Path: path,
		})
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// currentHolder reports the live process recorded in the PID file, if
// any. An unreadable or garbled file counts as unheld.
func currentHolder(path string) (int, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}

		return 0, false, errors.New().Wrap(errors.ErrInternal, err)
	}

	holder, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, nil
	}

	return holder, alive(holder), nil
}

// alive probes a PID with the null signal.
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}

// Remove releases the PID file.
func Remove() error {
	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}
