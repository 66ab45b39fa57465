// Package clipboard copies handoff URIs to the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// UnavailableHint tells the user what to install.
const UnavailableHint = "clipboard unavailable (install wl-clipboard, xclip or xsel on Linux)"

// linuxCommands are tried in order; wl-copy only when a Wayland session is present.
var linuxCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// getClipboardCommand returns the command that reads stdin into the clipboard.
func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "windows":
		if _, err := exec.LookPath("clip"); err == nil {
			return exec.Command("clip"), nil
		}
	case "linux", "freebsd", "openbsd":
		for _, argv := range linuxCommands {
			if argv[0] == "wl-copy" && os.Getenv("WAYLAND_DISPLAY") == "" {
				continue
			}
			if _, err := exec.LookPath(argv[0]); err == nil {
				return exec.Command(argv[0], argv[1:]...), nil
			}
		}
	}
	return nil, ErrClipboardUnavailable
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}

	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
