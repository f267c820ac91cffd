package imagerender

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	defaultCellWidthPx  = 8
	defaultCellHeightPx = 16
	unsharpAmount       = 0.3
	unsharpBlurRadius   = 1
)

// ResizeToFit scales img down to fit within a widthCells x heightCells
// terminal box, given the pixel size of one cell, and never upscales: a
// handle's decoded image is the ceiling, not the target. Downscaling goes
// through CatmullRom resampling followed by a light unsharp pass, since
// Lanczos-quality resampling alone still loses perceived edge detail at the
// sizes a halfblocks or Kitty frame actually renders at.
func ResizeToFit(img image.Image, widthCells, heightCells, cellW, cellH int) image.Image {
	if img == nil {
		return nil
	}

	cellW = positiveOr(cellW, defaultCellWidthPx)
	cellH = positiveOr(cellH, defaultCellHeightPx)
	widthCells = positiveOr(widthCells, 1)
	heightCells = positiveOr(heightCells, 1)

	budgetW := widthCells * cellW
	budgetH := heightCells * cellH

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return img
	}
	if srcW <= budgetW && srcH <= budgetH {
		return img
	}

	scale := math.Min(float64(budgetW)/float64(srcW), float64(budgetH)/float64(srcH))
	dstW := maxInt(1, int(math.Round(float64(srcW)*scale)))
	dstH := maxInt(1, int(math.Round(float64(srcH)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return sharpenEdges(dst, unsharpAmount, unsharpBlurRadius)
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// sharpenEdges restores edge contrast a CatmullRom downscale softens, via
// result = original + amount*(original - boxBlur(original)). radius sizes
// the blur kernel a 3x3 box blur at radius 1 is enough to counteract the
// softening from one resize pass without ringing.
func sharpenEdges(img *image.NRGBA, amount float64, radius int) *image.NRGBA {
	if amount <= 0 || radius <= 0 {
		return img
	}

	bounds := img.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return img
	}

	blurred := boxBlur(img, radius)

	result := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			origR, origG, origB, origA := img.At(x, y).RGBA()
			blurR, blurG, blurB, _ := blurred.At(x, y).RGBA()

			result.Set(x, y, color.NRGBA{
				R: uint8(clampU16(int(origR)+int(amount*float64(int(origR)-int(blurR)))) >> 8),
				G: uint8(clampU16(int(origG)+int(amount*float64(int(origG)-int(blurG)))) >> 8),
				B: uint8(clampU16(int(origB)+int(amount*float64(int(origB)-int(blurB)))) >> 8),
				A: uint8(origA >> 8),
			})
		}
	}

	return result
}

// boxBlur runs a separable horizontal-then-vertical box blur of the given
// radius over img.
func boxBlur(img *image.NRGBA, radius int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	horiz := image.NewNRGBA(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			horiz.Set(bounds.Min.X+x, bounds.Min.Y+y, averageRow(img, bounds, x, y, radius))
		}
	}

	vert := image.NewNRGBA(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vert.Set(bounds.Min.X+x, bounds.Min.Y+y, averageColumn(horiz, bounds, x, y, radius))
		}
	}

	return vert
}

func averageRow(img *image.NRGBA, bounds image.Rectangle, x, y, radius int) color.NRGBA {
	w := bounds.Dx()
	var rSum, gSum, bSum, aSum, count int
	for dx := -radius; dx <= radius; dx++ {
		sx := x + dx
		if sx < 0 || sx >= w {
			continue
		}
		r, g, b, a := img.At(bounds.Min.X+sx, bounds.Min.Y+y).RGBA()
		rSum += int(r)
		gSum += int(g)
		bSum += int(b)
		aSum += int(a)
		count++
	}
	return averagedColor(rSum, gSum, bSum, aSum, count)
}

func averageColumn(img *image.NRGBA, bounds image.Rectangle, x, y, radius int) color.NRGBA {
	h := bounds.Dy()
	var rSum, gSum, bSum, aSum, count int
	for dy := -radius; dy <= radius; dy++ {
		sy := y + dy
		if sy < 0 || sy >= h {
			continue
		}
		r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+sy).RGBA()
		rSum += int(r)
		gSum += int(g)
		bSum += int(b)
		aSum += int(a)
		count++
	}
	return averagedColor(rSum, gSum, bSum, aSum, count)
}

func averagedColor(rSum, gSum, bSum, aSum, count int) color.NRGBA {
	if count == 0 {
		count = 1
	}
	return color.NRGBA{
		R: uint8((rSum / count) >> 8),
		G: uint8((gSum / count) >> 8),
		B: uint8((bSum / count) >> 8),
		A: uint8((aSum / count) >> 8),
	}
}

// clampU16 clamps v to the range a 16-bit RGBA channel can hold.
func clampU16(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 65535:
		return 65535
	default:
		return v
	}
}

// ImageToNRGBA returns src as *image.NRGBA, converting only if it isn't
// already one. renderHalfblocks needs direct NRGBAAt access per pixel.
func ImageToNRGBA(src image.Image) *image.NRGBA {
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba
	}
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
