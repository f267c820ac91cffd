package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Size is the cell-and-pixel geometry imagerender.ResizeToFit needs to
// convert a requested cell box into source-image pixels. CellW/CellH are
// zero when the terminal never reported pixel dimensions (e.g. over a
// dumb pipe), and callers must treat that as "unknown, guess".
type Size struct {
	Cols   int // character columns
	Rows   int // character rows
	PixelW int // total pixel width, 0 if unknown
	PixelH int // total pixel height, 0 if unknown
	CellW  int // pixel width per cell, 0 if unknown
	CellH  int // pixel height per cell, 0 if unknown
}

// GetSize queries the terminal attached to stdout, falling back to stderr,
// then to COLUMNS/LINES, then to 80x24.
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s := getSizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return getSizeFromEnv()
}

func getSizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}

	s := Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		PixelW: int(ws.Xpixel),
		PixelH: int(ws.Ypixel),
	}

	if s.PixelW > 0 && s.Cols > 0 {
		s.CellW = s.PixelW / s.Cols
	}
	if s.PixelH > 0 && s.Rows > 0 {
		s.CellH = s.PixelH / s.Rows
	}

	return s
}

func getSizeFromEnv() Size {
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
