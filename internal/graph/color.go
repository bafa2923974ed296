package graph

import (
	"hash/fnv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fixed saturation and lightness of derived op colors.
const (
	colorSaturation = 0.55
	colorLightness  = 0.60
)

// ColorFor derives a stable color for an op name: the 32-bit FNV-1a hash of
// its UTF-8 bytes picks the hue, saturation and lightness are fixed.
func ColorFor(opName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(opName))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsl(hue, colorSaturation, colorLightness).Clamped().Hex()
}
