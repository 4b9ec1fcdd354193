package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PIDFile records the daemon's process ID so the proxy can tell a live
// daemon from a stale socket. The file is created exclusively and never
// followed through a symlink.
type PIDFile struct {
	path string
}

func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

func (p *PIDFile) Path() string {
	return p.path
}

func (p *PIDFile) isSymlink() bool {
	info, err := os.Lstat(p.path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (p *PIDFile) Write() error {
	create := func() (*os.File, error) {
		return os.OpenFile(p.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	}

	f, err := create()
	if os.IsExist(err) {
		if p.isSymlink() {
			return fmt.Errorf("pid file %s is a symlink", p.path)
		}
		// Stale file from a previous run; the instance lock already
		// guarantees we are the only daemon here.
		os.Remove(p.path)
		f, err = create()
	}
	if err != nil {
		return fmt.Errorf("create pid file: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d", os.Getpid())
	return err
}

// Read returns the recorded PID, or 0 when the file is absent or empty.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}

	pid, err := strconv.Atoi(text)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds %q, not a PID", p.path, text)
	}
	return pid, nil
}

func (p *PIDFile) IsProcessAlive() bool {
	pid, err := p.Read()
	if err != nil || pid == 0 {
		return false
	}
	return processExists(pid)
}

func (p *PIDFile) Remove() error {
	if p.isSymlink() {
		return fmt.Errorf("pid file %s is a symlink, not removing", p.path)
	}
	return os.Remove(p.path)
}
