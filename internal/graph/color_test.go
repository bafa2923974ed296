package graph

import (
	"regexp"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestColorFor(t *testing.T) {
	for _, op := range []string{"Conv2D", "MatMul", "Const", ""} {
		got := ColorFor(op)
		if !hexColor.MatchString(got) {
			t.Errorf("ColorFor(%q) = %q, not a hex color", op, got)
		}
		if again := ColorFor(op); again != got {
			t.Errorf("ColorFor(%q) not stable: %q then %q", op, got, again)
		}
	}
}

func TestColorForFixedSaturationLightness(t *testing.T) {
	c, err := colorful.Hex(ColorFor("Relu"))
	if err != nil {
		t.Fatalf("colorful.Hex() error = %v", err)
	}
	_, s, l := c.Hsl()
	if diff := s - colorSaturation; diff > 0.02 || diff < -0.02 {
		t.Errorf("saturation = %.3f, want %.2f", s, colorSaturation)
	}
	if diff := l - colorLightness; diff > 0.02 || diff < -0.02 {
		t.Errorf("lightness = %.3f, want %.2f", l, colorLightness)
	}
}
