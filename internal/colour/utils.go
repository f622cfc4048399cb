package colour

// Text contrast threshold on the 0-255 luma scale. Backgrounds brighter than
// this get black text.
const textLumaThreshold = 186

// Luma returns the ITU-R BT.601 weighted brightness of a colour on a 0-255
// scale: 0.299*R + 0.587*G + 0.114*B.
func Luma(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// TextColourFor returns black or white, whichever reads better on top of bg.
func TextColourFor(bg RGB) RGB {
	if Luma(bg) > textLumaThreshold {
		return RGB{}
	}
	return RGB{R: 255, G: 255, B: 255}
}
