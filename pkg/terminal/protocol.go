package terminal

import (
	"os"
	"strings"
)

// GraphicsProtocol is the wire format imagerender.Renderer encodes a frame
// into. Renderer.renderWithProtocol switches on exactly these values.
type GraphicsProtocol int

const (
	ProtocolNone       GraphicsProtocol = iota // rendering disabled
	ProtocolKitty                              // Kitty graphics protocol
	ProtocolITerm2                             // iTerm2 inline images protocol
	ProtocolSixel                              // Sixel graphics protocol
	ProtocolHalfblocks                         // Unicode half-blocks, ANSI true color
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

func (p GraphicsProtocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// SelectProtocol picks the best protocol for a detected terminal. Ghostty,
// Kitty, and WezTerm get ProtocolKitty; iTerm2 gets ProtocolITerm2; anything
// else falls back to ProtocolHalfblocks, which renders on any true-color
// terminal with no protocol support at all. A session running over SSH
// degrades any protocol-based choice to halfblocks, since inline image
// protocols are unreliable across an SSH pipe.
func SelectProtocol(term Terminal) GraphicsProtocol {
	proto := selectBaseProtocol(term)

	if isSSH() {
		switch proto {
		case ProtocolKitty, ProtocolITerm2, ProtocolSixel:
			return ProtocolHalfblocks
		}
	}

	return proto
}

func selectBaseProtocol(term Terminal) GraphicsProtocol {
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
}

// SelectProtocolWithOverride lets imagerender.Config.Protocol force a
// specific protocol instead of deferring to SelectProtocol. An empty or
// "auto" override falls through to normal detection.
func SelectProtocolWithOverride(term Terminal, override string) GraphicsProtocol {
	if override == "" || strings.EqualFold(override, "auto") {
		return SelectProtocol(term)
	}
	switch strings.ToLower(override) {
	case "kitty":
		return ProtocolKitty
	case "iterm2":
		return ProtocolITerm2
	case "sixel":
		return ProtocolSixel
	case "halfblocks", "unicode", "half-blocks":
		return ProtocolHalfblocks
	case "none", "off", "disabled":
		return ProtocolNone
	default:
		return SelectProtocol(term)
	}
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
