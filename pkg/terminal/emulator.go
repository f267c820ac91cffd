// Package terminal identifies the terminal emulator imagerender is drawing
// into and picks the image protocol and cell geometry that follow from it.
// It has exactly one consumer, imagerender.NewRenderer, and exposes only
// what that consumer needs: which emulator this is, which graphics protocol
// it supports, and how many pixels a character cell covers.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use. Renderer protocol
// selection switches on this value; it carries no capability beyond that.
type Terminal int

const (
	TermUnknown   Terminal = iota
	TermGhostty            // kitty graphics protocol, true color
	TermKitty              // kitty graphics protocol, origin of the name
	TermWezTerm            // kitty graphics protocol, also sixel
	TermITerm2             // iterm2 inline images protocol
	TermAlacritty          // true color, no inline image protocol
	TermTilix              // VTE-based, no inline image protocol
	TermGNOME              // VTE-based, no inline image protocol
	TermTmux               // multiplexer, degrades protocol selection
	TermScreen             // multiplexer, degrades protocol selection
	TermVSCode             // integrated terminal, no inline image protocol
	TermEmacs              // vterm/eat, no inline image protocol
	TermGeneric            // unrecognized terminal, halfblocks only
)

var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermTilix:     "tilix",
	TermGNOME:     "gnome-terminal",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermVSCode:    "vscode",
	TermEmacs:     "emacs",
	TermGeneric:   "generic",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// Detect identifies the terminal emulator from environment variables alone
// (no query escape sequences, no I/O). Signals are checked in order of
// reliability: TERM_PROGRAM, then TERM, then emulator-specific vars, then
// VTE/emacs/multiplexer vars, then LC_TERMINAL, falling back to TermGeneric.
func Detect() Terminal {
	if tp := os.Getenv("TERM_PROGRAM"); tp != "" {
		switch strings.ToLower(tp) {
		case "ghostty":
			return TermGhostty
		case "kitty":
			return TermKitty
		case "wezterm":
			return TermWezTerm
		case "iterm.app":
			return TermITerm2
		case "vscode":
			return TermVSCode
		case "alacritty":
			return TermAlacritty
		case "tmux":
			return TermTmux
		}
	}

	if term := os.Getenv("TERM"); term != "" {
		switch {
		case term == "xterm-ghostty":
			return TermGhostty
		case term == "xterm-kitty":
			return TermKitty
		case strings.HasPrefix(term, "alacritty"):
			return TermAlacritty
		case strings.HasPrefix(term, "screen"):
			if os.Getenv("STY") != "" {
				return TermScreen
			}
		}
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return TermKitty
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return TermITerm2
	}
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return TermWezTerm
	}

	if os.Getenv("VTE_VERSION") != "" {
		if os.Getenv("TILIX_ID") != "" {
			return TermTilix
		}
		return TermGNOME
	}

	if os.Getenv("INSIDE_EMACS") != "" {
		return TermEmacs
	}

	if os.Getenv("TMUX") != "" {
		return TermTmux
	}
	if os.Getenv("STY") != "" {
		return TermScreen
	}

	if os.Getenv("LC_TERMINAL") == "iTerm2" {
		return TermITerm2
	}

	return TermGeneric
}
