package terminal

import (
	"os"
	"testing"
)

var termEnvVars = []string{
	"TERM_PROGRAM", "TERM", "COLORTERM",
	"KITTY_WINDOW_ID", "ITERM_SESSION_ID", "WEZTERM_EXECUTABLE",
	"TILIX_ID", "VTE_VERSION", "LC_TERMINAL",
	"INSIDE_EMACS", "TMUX", "STY",
	"SSH_TTY", "SSH_CONNECTION", "SSH_CLIENT",
	"COLUMNS", "LINES",
}

func clearTermEnv(t *testing.T) {
	t.Helper()
	for _, v := range termEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want Terminal
	}{
		{"ghostty via TERM_PROGRAM", map[string]string{"TERM_PROGRAM": "ghostty"}, TermGhostty},
		{"ghostty via TERM", map[string]string{"TERM": "xterm-ghostty"}, TermGhostty},
		{"kitty via TERM_PROGRAM", map[string]string{"TERM_PROGRAM": "kitty"}, TermKitty},
		{"kitty via TERM", map[string]string{"TERM": "xterm-kitty"}, TermKitty},
		{"kitty via window id", map[string]string{"KITTY_WINDOW_ID": "1"}, TermKitty},
		{"wezterm via TERM_PROGRAM", map[string]string{"TERM_PROGRAM": "wezterm"}, TermWezTerm},
		{"wezterm via executable", map[string]string{"WEZTERM_EXECUTABLE": "/usr/bin/wezterm"}, TermWezTerm},
		{"iterm2 via TERM_PROGRAM", map[string]string{"TERM_PROGRAM": "iTerm.app"}, TermITerm2},
		{"iterm2 via session id", map[string]string{"ITERM_SESSION_ID": "w0t0p0"}, TermITerm2},
		{"iterm2 via LC_TERMINAL", map[string]string{"LC_TERMINAL": "iTerm2"}, TermITerm2},
		{"alacritty via TERM_PROGRAM", map[string]string{"TERM_PROGRAM": "alacritty"}, TermAlacritty},
		{"alacritty via TERM prefix", map[string]string{"TERM": "alacritty-direct"}, TermAlacritty},
		{"tilix via VTE + TILIX_ID", map[string]string{"VTE_VERSION": "6003", "TILIX_ID": "1"}, TermTilix},
		{"gnome via VTE alone", map[string]string{"VTE_VERSION": "6003"}, TermGNOME},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode"}, TermVSCode},
		{"emacs", map[string]string{"INSIDE_EMACS": "29.1,comint"}, TermEmacs},
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1234,0"}, TermTmux},
		{"screen", map[string]string{"TERM": "screen", "STY": "1234.pts-0.host"}, TermScreen},
		{"unrecognized falls back to generic", nil, TermGeneric},
		{"TERM_PROGRAM wins over TERM", map[string]string{"TERM_PROGRAM": "ghostty", "TERM": "xterm-kitty"}, TermGhostty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearTermEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := Detect(); got != tc.want {
				t.Errorf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTerminalString(t *testing.T) {
	if got := TermKitty.String(); got != "kitty" {
		t.Errorf("TermKitty.String() = %q, want kitty", got)
	}
	if got := Terminal(999).String(); got != "unknown" {
		t.Errorf("out-of-range Terminal.String() = %q, want unknown", got)
	}
}

func TestSelectProtocol(t *testing.T) {
	clearTermEnv(t)

	cases := []struct {
		term Terminal
		want GraphicsProtocol
	}{
		{TermGhostty, ProtocolKitty},
		{TermKitty, ProtocolKitty},
		{TermWezTerm, ProtocolKitty},
		{TermITerm2, ProtocolITerm2},
		{TermAlacritty, ProtocolHalfblocks},
		{TermGeneric, ProtocolHalfblocks},
	}
	for _, tc := range cases {
		if got := SelectProtocol(tc.term); got != tc.want {
			t.Errorf("SelectProtocol(%v) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestSelectProtocolDegradesOverSSH(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("SSH_TTY", "/dev/ttys001")

	if got := SelectProtocol(TermKitty); got != ProtocolHalfblocks {
		t.Errorf("SelectProtocol(TermKitty) over SSH = %v, want ProtocolHalfblocks", got)
	}
	if got := SelectProtocol(TermITerm2); got != ProtocolHalfblocks {
		t.Errorf("SelectProtocol(TermITerm2) over SSH = %v, want ProtocolHalfblocks", got)
	}
}

func TestSelectProtocolWithOverride(t *testing.T) {
	clearTermEnv(t)

	cases := []struct {
		override string
		want     GraphicsProtocol
	}{
		{"kitty", ProtocolKitty},
		{"iterm2", ProtocolITerm2},
		{"sixel", ProtocolSixel},
		{"halfblocks", ProtocolHalfblocks},
		{"none", ProtocolNone},
		{"", SelectProtocol(TermAlacritty)},
		{"auto", SelectProtocol(TermAlacritty)},
		{"nonsense", SelectProtocol(TermAlacritty)},
	}
	for _, tc := range cases {
		if got := SelectProtocolWithOverride(TermAlacritty, tc.override); got != tc.want {
			t.Errorf("SelectProtocolWithOverride(%q) = %v, want %v", tc.override, got, tc.want)
		}
	}
}

func TestGraphicsProtocolString(t *testing.T) {
	if got := ProtocolKitty.String(); got != "kitty" {
		t.Errorf("ProtocolKitty.String() = %q, want kitty", got)
	}
	if got := GraphicsProtocol(999).String(); got != "unknown" {
		t.Errorf("out-of-range GraphicsProtocol.String() = %q, want unknown", got)
	}
}

func TestGetSizeEnvFallback(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("COLUMNS", "120")
	t.Setenv("LINES", "40")

	s := getSizeFromEnv()
	if s.Cols != 120 || s.Rows != 40 {
		t.Errorf("getSizeFromEnv() = %+v, want Cols=120 Rows=40", s)
	}
}

func TestGetSizeDefaults(t *testing.T) {
	clearTermEnv(t)

	s := getSizeFromEnv()
	if s.Cols != 80 || s.Rows != 24 {
		t.Errorf("getSizeFromEnv() = %+v, want the 80x24 default", s)
	}
}

func TestEnvInt(t *testing.T) {
	clearTermEnv(t)

	if got := envInt("COLUMNS", 80); got != 80 {
		t.Errorf("envInt unset = %d, want fallback 80", got)
	}
	t.Setenv("COLUMNS", "200")
	if got := envInt("COLUMNS", 80); got != 200 {
		t.Errorf("envInt set = %d, want 200", got)
	}
	t.Setenv("COLUMNS", "not-a-number")
	if got := envInt("COLUMNS", 80); got != 80 {
		t.Errorf("envInt garbage = %d, want fallback 80", got)
	}
	t.Setenv("COLUMNS", "-5")
	if got := envInt("COLUMNS", 80); got != 80 {
		t.Errorf("envInt negative = %d, want fallback 80", got)
	}
}

// DetectCapabilities caches via sync.Once for the process lifetime, so it
// can only be meaningfully exercised once per test binary; everything else
// about its behavior is covered by the Detect/SelectProtocol/GetSize tests
// above, which it composes.
func TestDetectCapabilitiesComposesDetectionLayers(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("TERM_PROGRAM", "ghostty")
	t.Setenv("COLUMNS", "100")
	t.Setenv("LINES", "30")

	caps := DetectCapabilities()
	if caps == nil {
		t.Fatal("DetectCapabilities() returned nil")
	}
	if caps.Size.Cols == 0 || caps.Size.Rows == 0 {
		t.Errorf("caps.Size = %+v, want nonzero Cols/Rows", caps.Size)
	}

	again := DetectCapabilities()
	if again != caps {
		t.Error("DetectCapabilities() should return the same cached pointer on a second call")
	}
}
