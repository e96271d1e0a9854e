package gizmo

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Palette colours are RGBA in [0,1], the layout the handle pass uploads.
var (
	colorRed    = rgba(colornames.Red, 1)
	colorGreen  = rgba(colornames.Lime, 1)
	colorBlue   = rgba(colornames.Blue, 1)
	colorGray   = rgba(color.RGBA{0x78, 0x78, 0x78, 0xff}, 1)
	colorWhite  = rgba(colornames.White, 0.25)
	colorYellow = rgba(colornames.Yellow, 0.25)
	colorHelper = rgba(colornames.White, 0.5)
	colorPicker = rgba(colornames.White, 0.15)

	colorRedPlane   = rgba(colornames.Red, 0.5)
	colorGreenPlane = rgba(colornames.Lime, 0.5)
	colorBluePlane  = rgba(colornames.Blue, 0.5)

	white = rgba(colornames.White, 1)
)

func rgba(c color.RGBA, opacity float32) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, opacity}
}

// blend mixes the RGB part of a toward b by t, keeping a's alpha.
func blend(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3],
	}
}

// desaturate replaces the RGB part with its luma.
func desaturate(c [4]float32) [4]float32 {
	l := 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
	return [4]float32{l, l, l, c[3]}
}
