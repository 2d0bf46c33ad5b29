// Package runtimepath locates the per-user files a running daemon owns.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "panehost.sock"
	pidName    = "panehost.pid"
)

// Environment overrides. PANEHOST_SOCKET wins over PANEHOST_RUNTIME_DIR for
// the socket only.
const (
	EnvRuntimeDir = "PANEHOST_RUNTIME_DIR"
	EnvSocket     = "PANEHOST_SOCKET"
)

type candidate struct {
	path   string
	create bool
}

// candidates lists runtime dirs in priority order. The last one is always
// usable once created.
func candidates() []candidate {
	uid := os.Getuid()
	var out []candidate
	if dir := os.Getenv(EnvRuntimeDir); dir != "" {
		out = append(out, candidate{path: dir, create: true})
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		out = append(out, candidate{path: dir})
	}
	out = append(out,
		candidate{path: fmt.Sprintf("/run/user/%d", uid)},
		candidate{path: filepath.Join(os.TempDir(), fmt.Sprintf("panehost-runtime-%d", uid)), create: true},
	)
	return out
}

// Dir returns the first usable runtime directory: $PANEHOST_RUNTIME_DIR,
// $XDG_RUNTIME_DIR, /run/user/<uid>, then a private dir under the temp dir.
func Dir() (string, error) {
	var lastErr error
	for _, c := range candidates() {
		if c.create {
			if err := os.MkdirAll(c.path, 0700); err != nil {
				lastErr = fmt.Errorf("failed to create runtime dir: %w", err)
				continue
			}
			return c.path, nil
		}
		// XDG_RUNTIME_DIR is trusted as set; the login manager owns it.
		if c.path == os.Getenv("XDG_RUNTIME_DIR") {
			return c.path, nil
		}
		if info, err := os.Stat(c.path); err == nil && info.IsDir() {
			return c.path, nil
		}
	}
	return "", lastErr
}

func join(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if p := os.Getenv(EnvSocket); p != "" {
		return p, nil
	}
	return join(socketName)
}

// PIDPath returns the daemon pid file path.
func PIDPath() (string, error) {
	return join(pidName)
}
