// Package handoff passes an obsidian:// URI to the application registered for it.
package handoff

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Handoff errors.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidURI          = errors.New("not an obsidian:// URI")
)

// Scheme is the only URI scheme the opener hands off.
const Scheme = "obsidian://"

// Opener launches URIs with the platform opener or a configured command.
type Opener struct {
	command string // empty or "system" uses the platform default
	goos    string
	start   func(*exec.Cmd) error
}

// Option configures an Opener.
type Option func(*Opener)

// WithCommand uses a custom launcher, e.g. "flatpak run md.obsidian.Obsidian".
// The URI is appended as the last argument.
func WithCommand(command string) Option {
	return func(o *Opener) {
		o.command = strings.TrimSpace(command)
	}
}

// WithStarter replaces cmd.Start, for tests and dry runs.
func WithStarter(start func(*exec.Cmd) error) Option {
	return func(o *Opener) {
		o.start = start
	}
}

// withGOOS overrides the detected platform.
func withGOOS(goos string) Option {
	return func(o *Opener) {
		o.goos = goos
	}
}

// NewOpener creates an Opener for the current platform.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		goos:  runtime.GOOS,
		start: (*exec.Cmd).Start,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Command returns the command that opens uri without running it.
func (o *Opener) Command(uri string) (*exec.Cmd, error) {
	if !strings.HasPrefix(uri, Scheme) {
		return nil, fmt.Errorf("%w: %.40q", ErrInvalidURI, uri)
	}

	if o.command != "" && o.command != "system" {
		argv := strings.Fields(o.command)
		return exec.Command(argv[0], append(argv[1:], uri)...), nil
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", uri), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, o.goos)
	}
}

// Open starts the launcher for uri and returns without waiting for it.
func (o *Opener) Open(uri string) error {
	cmd, err := o.Command(uri)
	if err != nil {
		return err
	}
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("launching %s: %w", cmd.Path, err)
	}
	return nil
}
