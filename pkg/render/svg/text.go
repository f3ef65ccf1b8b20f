package svg

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.4
	fontWidthRatio  = 0.9
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 14.0
)

// FontSize picks a font size that fits textLen characters into a box.
func FontSize(width, height float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := height * fontHeightRatio
	byWidth := (width * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// Truncate shortens label so it fits width at the given font size, ending
// it with ".." when cut.
func Truncate(label string, width, fontSize float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
