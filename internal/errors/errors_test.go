package errors

import (
	"testing"
)

func TestClassify(t *testing.T) {
	base := Newf("cluster count %d", 0)
	err := Classify(base, ErrInvalidClusterCount)

	if !Is(err, ErrInvalidClusterCount) {
		t.Errorf("Is(err, ErrInvalidClusterCount) = false, want true")
	}
	if Is(err, ErrEmptyPalette) {
		t.Errorf("Is(err, ErrEmptyPalette) = true, want false")
	}
	if err.Error() != "cluster count 0" {
		t.Errorf("Error() = %q, want %q", err.Error(), "cluster count 0")
	}
}

func TestClassifyWrapped(t *testing.T) {
	err := Wrap(Classify(New("bad json"), ErrPaletteLoad), "loading palette")
	if !Is(err, ErrPaletteLoad) {
		t.Errorf("wrapped error lost its class")
	}
}

func TestClassifyNil(t *testing.T) {
	if err := Classify(nil, ErrImageDecode); err != nil {
		t.Errorf("Classify(nil) = %v, want nil", err)
	}
}
