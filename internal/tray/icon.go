package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 64

var (
	iconPurple = color.RGBA{R: 0x91, G: 0x46, B: 0xFF, A: 0xFF}
	iconWhite  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

var (
	iconOnce sync.Once
	iconData []byte
)

// DefaultIcon returns the tray icon as PNG: a purple disc with a white centre.
func DefaultIcon() []byte {
	iconOnce.Do(func() {
		iconData = renderIcon(iconSize)
	})
	return iconData
}

func renderIcon(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	c := float64(size-1) / 2
	outer := float64(size) / 2
	inner := outer / 3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= inner*inner:
				img.SetRGBA(x, y, iconWhite)
			case d2 <= outer*outer:
				img.SetRGBA(x, y, iconPurple)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image does not fail.
		panic(err)
	}
	return buf.Bytes()
}
