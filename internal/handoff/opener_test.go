package handoff

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testURI = "obsidian://new?file=Papers%2FX&content=y"

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		want    []string
		wantErr error
	}{
		{"darwin", []Option{withGOOS("darwin")}, []string{"open", testURI}, nil},
		{"linux", []Option{withGOOS("linux")}, []string{"xdg-open", testURI}, nil},
		{"windows", []Option{withGOOS("windows")}, []string{"rundll32", "url.dll,FileProtocolHandler", testURI}, nil},
		{"system keyword", []Option{withGOOS("linux"), WithCommand("system")}, []string{"xdg-open", testURI}, nil},
		{"custom command", []Option{withGOOS("plan9"), WithCommand("flatpak run md.obsidian.Obsidian")},
			[]string{"flatpak", "run", "md.obsidian.Obsidian", testURI}, nil},
		{"unsupported", []Option{withGOOS("plan9")}, nil, ErrUnsupportedPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := NewOpener(tt.opts...).Command(testURI)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Command() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, cmd.Args); diff != "" {
				t.Errorf("Command() args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpener_RejectsOtherSchemes(t *testing.T) {
	for _, uri := range []string{"https://example.com", "file:///etc/passwd", ""} {
		if _, err := NewOpener().Command(uri); !errors.Is(err, ErrInvalidURI) {
			t.Errorf("Command(%q) error = %v, want ErrInvalidURI", uri, err)
		}
	}
}

func TestOpener_Open(t *testing.T) {
	var started *exec.Cmd
	o := NewOpener(withGOOS("linux"), WithStarter(func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}))

	if err := o.Open(testURI); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if started == nil || started.Args[len(started.Args)-1] != testURI {
		t.Errorf("Open() started %v, want xdg-open %s", started, testURI)
	}

	failing := NewOpener(withGOOS("linux"), WithStarter(func(*exec.Cmd) error {
		return exec.ErrNotFound
	}))
	if err := failing.Open(testURI); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Open() error = %v, want wrapped exec.ErrNotFound", err)
	}
}
