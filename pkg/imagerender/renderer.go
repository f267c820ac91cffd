// Package imagerender turns decoded images into terminal escape sequences.
// It is a consumer of pkg/imagecache, not a second decoder: by the time a
// Renderer sees an image, imagecache has already fetched and decoded it,
// so this package owns only protocol selection, resizing, and the
// terminal-specific rendering backends.
package imagerender

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"strings"

	"github.com/blacktop/go-termimg"

	"github.com/tinyland/imagecache/pkg/imagecache"
	"github.com/tinyland/imagecache/pkg/terminal"
)

// Config controls how a Renderer resizes and caches rendered frames.
type Config struct {
	// Protocol overrides terminal detection. Empty or "auto" defers to
	// Capabilities.Protocol.
	Protocol string
	// MaxCacheSizeMB bounds the rendered-output cache. <= 0 uses 32MB.
	MaxCacheSizeMB int
}

// Renderer converts *imagecache.ImageHandle values into terminal escape
// strings, with protocol auto-detection and an output cache keyed by image
// content so a settled handle re-rendered at the same size is free.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	caps     terminal.Capabilities
	cache    *Cache
	cfg      Config
}

// NewRenderer creates a Renderer configured from terminal capabilities and
// user configuration. Protocol selection follows a cascade:
//
//  1. If cfg.Protocol is set (and not "auto"), use that override.
//  2. Otherwise, use caps.Protocol from terminal detection.
func NewRenderer(caps terminal.Capabilities, cfg Config) *Renderer {
	proto := caps.Protocol
	if cfg.Protocol != "" && cfg.Protocol != "auto" {
		proto = terminal.SelectProtocolWithOverride(caps.Term, cfg.Protocol)
	}

	cacheMB := cfg.MaxCacheSizeMB
	if cacheMB <= 0 {
		cacheMB = 32
	}

	return &Renderer{
		protocol: proto,
		caps:     caps,
		cache:    NewCache(cacheMB),
		cfg:      cfg,
	}
}

// Protocol returns the active rendering protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol {
	return r.protocol
}

// Cache returns the renderer's output cache for external inspection or
// invalidation.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Render converts a settled image handle to a terminal escape string at the
// given cell dimensions. The caller is expected to have obtained handle
// from a Cache.GetImage/WaitForImage ImageReadyResponse; Render itself does
// no fetching or decoding.
func (r *Renderer) Render(handle *imagecache.ImageHandle, width, height int) (string, error) {
	if handle == nil {
		return "", fmt.Errorf("imagerender: handle is nil")
	}
	if r.protocol == terminal.ProtocolNone {
		return "", fmt.Errorf("imagerender: rendering is disabled (protocol=none)")
	}

	img := handle.Image()
	imgHash := r.hashImage(img)
	key := MakeCacheKey(r.protocol.String(), width, height, imgHash)

	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	cellW := r.caps.Size.CellW
	cellH := r.caps.Size.CellH
	if r.protocol == terminal.ProtocolHalfblocks {
		// A halfblocks cell shows one pixel column and two pixel rows.
		cellW, cellH = 1, 2
	}
	resized := ResizeToFit(img, width, height, cellW, cellH)

	rendered, err := r.renderWithProtocol(resized, width, height)
	if err != nil {
		return "", fmt.Errorf("imagerender: render failed: %w", err)
	}

	r.cache.Put(key, rendered)

	return rendered, nil
}

// renderWithProtocol dispatches to the correct rendering backend.
func (r *Renderer) renderWithProtocol(img image.Image, widthCells, heightCells int) (string, error) {
	switch r.protocol {
	case terminal.ProtocolHalfblocks:
		return r.renderHalfblocks(img, widthCells, heightCells)
	case terminal.ProtocolKitty:
		return r.renderTermimg(img, termimg.Kitty, widthCells, heightCells)
	case terminal.ProtocolITerm2:
		return r.renderTermimg(img, termimg.ITerm2, widthCells, heightCells)
	case terminal.ProtocolSixel:
		return r.renderTermimg(img, termimg.Sixel, widthCells, heightCells)
	default:
		return r.renderHalfblocks(img, widthCells, heightCells)
	}
}

// renderTermimg delegates to go-termimg for Kitty, iTerm2, and Sixel protocols.
func (r *Renderer) renderTermimg(img image.Image, proto termimg.Protocol, widthCells, heightCells int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}

	ti.Protocol(proto).Size(widthCells, heightCells).Scale(termimg.ScaleFit)

	return ti.Render()
}

// renderHalfblocks renders using Unicode upper-half-block characters with
// 24-bit ANSI true color. Each character cell encodes two vertical pixels:
// the top pixel as the foreground color (via the upper half block U+2580)
// and the bottom pixel as the background color. Pure Go, no external
// process calls, works on any true-color terminal.
func (r *Renderer) renderHalfblocks(img image.Image, widthCells, heightCells int) (string, error) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	if srcW <= 0 || srcH <= 0 {
		return "", nil
	}

	nrgba := ImageToNRGBA(img)

	var b strings.Builder
	b.Grow(srcW * (srcH / 2) * 30)

	for y := 0; y < srcH; y += 2 {
		if y > 0 {
			b.WriteString("\x1b[0m\n")
		}

		for x := 0; x < srcW; x++ {
			top := nrgba.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)

			var bot struct{ R, G, B, A uint8 }
			if y+1 < srcH {
				c := nrgba.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y+1)
				bot.R, bot.G, bot.B, bot.A = c.R, c.G, c.B, c.A
			}

			switch {
			case top.A == 0 && bot.A == 0:
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0 || y+1 >= srcH:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}

	b.WriteString("\x1b[0m")
	return b.String(), nil
}

// hashImage computes a fast content hash for cache keying. Small images
// hash every pixel; larger ones sample a 32x32 grid plus dimensions for a
// probabilistically unique key.
func (r *Renderer) hashImage(img image.Image) [32]byte {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	hasher := sha256.New()

	var dimBuf [8]byte
	binary.LittleEndian.PutUint32(dimBuf[:4], uint32(w))
	binary.LittleEndian.PutUint32(dimBuf[4:], uint32(h))
	hasher.Write(dimBuf[:])

	var pixBuf [4]byte
	writePixel := func(x, y int) {
		pr, pg, pb, pa := img.At(x, y).RGBA()
		pixBuf[0] = uint8(pr >> 8)
		pixBuf[1] = uint8(pg >> 8)
		pixBuf[2] = uint8(pb >> 8)
		pixBuf[3] = uint8(pa >> 8)
		hasher.Write(pixBuf[:])
	}

	if w*h <= 65536 {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				writePixel(x, y)
			}
		}
	} else {
		for sy := 0; sy < 32; sy++ {
			for sx := 0; sx < 32; sx++ {
				writePixel(bounds.Min.X+(sx*w/32), bounds.Min.Y+(sy*h/32))
			}
		}
	}

	var result [32]byte
	copy(result[:], hasher.Sum(nil))
	return result
}
