// Package pty implements the host-side PTY substrate: allocating a
// pseudo-terminal pair, handing the slave to a child process, and keeping
// the master for host I/O.
package pty

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Size is a terminal window size in character cells.
type Size struct {
	Cols uint16
	Rows uint16
}

// Options configures a new PTY session.
type Options struct {
	Size    Size
	Term    string   // defaults to "xterm-256color"
	Env     []string // additions appended to the child's environment
	Dir     string   // working directory, defaults to the current one
	Command string   // defaults to the user's $SHELL
	Args    []string
}

// ErrKind enumerates the recoverable PTY failure kinds.
type ErrKind int

const (
	// ErrPtyUnavailable covers posix_openpt/grantpt/unlockpt/ptsname failures.
	ErrPtyUnavailable ErrKind = iota
	ErrIO
	ErrWindowResizeFailed
)

// Error wraps a PTY failure with its kind so callers can switch on it.
type Error struct {
	Kind ErrKind
	Op   string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("pty: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Session owns the PTY master and the child process attached to the slave.
type Session struct {
	mu      sync.Mutex
	master  *os.File
	cmd     *exec.Cmd
	size    Size
	closed  bool
}

// Open allocates a master/slave pair, execs the requested command (or the
// user's shell) attached to the slave, and returns the session handle
// owning the master. The slave keeps the pty driver's default termios
// settings; Open does not put it into raw mode.
//
// Failure to allocate the pty (posix_openpt/grantpt/unlockpt/ptsname in the
// underlying implementation) is surfaced as ErrPtyUnavailable.
func Open(opts Options) (*Session, error) {
	if opts.Term == "" {
		opts.Term = "xterm-256color"
	}
	if opts.Size.Cols == 0 {
		opts.Size.Cols = 80
	}
	if opts.Size.Rows == 0 {
		opts.Size.Rows = 24
	}
	command := opts.Command
	args := opts.Args
	if command == "" {
		command = defaultShell()
		args = nil
	}

	cmd := exec.Command(command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	env := os.Environ()
	env = append(env, "TERM="+opts.Term)
	env = append(env, fmt.Sprintf("COLUMNS=%d", opts.Size.Cols))
	env = append(env, fmt.Sprintf("LINES=%d", opts.Size.Rows))
	env = append(env, "TERM_PROGRAM=sare")
	env = append(env, opts.Env...)
	cmd.Env = env

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: opts.Size.Cols,
		Rows: opts.Size.Rows,
	})
	if err != nil {
		return nil, &Error{Kind: ErrPtyUnavailable, Op: "open", Err: err}
	}

	return &Session{
		master: master,
		cmd:    cmd,
		size:   opts.Size,
	}, nil
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Pid returns the child process id.
func (s *Session) Pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}

// Read blocks until at least one byte is available on the master, or
// returns io.EOF once the child has exited and the slave is gone. I/O
// errors are always surfaced — the host never silently drops PTY data.
func (s *Session) Read(buf []byte) (int, error) {
	s.mu.Lock()
	master := s.master
	s.mu.Unlock()
	if master == nil {
		return 0, &Error{Kind: ErrIO, Op: "read", Err: os.ErrClosed}
	}
	n, err := master.Read(buf)
	if err != nil && err.Error() != "EOF" {
		return n, &Error{Kind: ErrIO, Op: "read", Err: err}
	}
	return n, err
}

// Write sends bytes to the PTY master (child's stdin).
func (s *Session) Write(buf []byte) (int, error) {
	s.mu.Lock()
	master := s.master
	s.mu.Unlock()
	if master == nil {
		return 0, &Error{Kind: ErrIO, Op: "write", Err: os.ErrClosed}
	}
	n, err := master.Write(buf)
	if err != nil {
		return n, &Error{Kind: ErrIO, Op: "write", Err: err}
	}
	return n, nil
}

// Resize writes the new window size into the PTY and signals WINCH to the
// foreground process group. If group delivery fails, it falls back to
// signaling the tracked child directly; resize never fails purely because
// signal delivery failed.
func (s *Session) Resize(size Size) error {
	s.mu.Lock()
	master := s.master
	pid := 0
	if s.cmd != nil && s.cmd.Process != nil {
		pid = s.cmd.Process.Pid
	}
	s.size = size
	s.mu.Unlock()

	if master == nil {
		return &Error{Kind: ErrWindowResizeFailed, Op: "resize", Err: os.ErrClosed}
	}

	if err := pty.Setsize(master, &pty.Winsize{Cols: size.Cols, Rows: size.Rows}); err != nil {
		return &Error{Kind: ErrWindowResizeFailed, Op: "resize", Err: err}
	}

	if pid > 0 {
		pgid, err := unix.Getpgid(pid)
		if err == nil {
			if err := unix.Kill(-pgid, unix.SIGWINCH); err != nil {
				// Fall back to signaling the tracked child directly; never
				// fail the resize over signal delivery.
				_ = unix.Kill(pid, unix.SIGWINCH)
			}
		} else {
			_ = unix.Kill(pid, unix.SIGWINCH)
		}
	}
	return nil
}

// Size returns the last window size applied to this session.
func (s *Session) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Close closes the master and releases the session. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.master != nil {
		err := s.master.Close()
		s.master = nil
		return err
	}
	return nil
}
