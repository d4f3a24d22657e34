// Package imaging brings generated product shots to a common composition.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Normalize decodes img, trims near-white borders, and centres the subject
// on a square white canvas of side size with a margin. The result is PNG.
func Normalize(img []byte, size int, margin float64) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := contentBounds(src)
	inner := int(float64(size) * (1 - 2*margin))
	if inner <= 0 {
		inner = size
	}

	scale := float64(inner) / float64(max(bounds.Dx(), bounds.Dy()))
	w := max(1, int(float64(bounds.Dx())*scale))
	h := max(1, int(float64(bounds.Dy())*scale))

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	offX := (size - w) / 2
	offY := (size - h) / 2
	draw.CatmullRom.Scale(canvas, image.Rect(offX, offY, offX+w, offY+h), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// contentBounds is the smallest rectangle holding every pixel that is not
// close to white. A blank image keeps its full bounds.
func contentBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if nearWhite(img.At(x, y)) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x+1)
			maxY = max(maxY, y+1)
		}
	}
	if minX >= maxX || minY >= maxY {
		return b
	}
	return image.Rect(minX, minY, maxX, maxY)
}

func nearWhite(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0x1000 {
		return true
	}
	const threshold = 0xF000
	return r > threshold && g > threshold && b > threshold
}
