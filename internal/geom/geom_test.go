package geom

import "testing"

func TestClampPromotesZeroToOne(t *testing.T) {
	d := Dimension{Width: 0, Height: -3}.Clamp()
	if d.Width != 1 || d.Height != 1 {
		t.Fatalf("expected 1x1, got %s", d)
	}
}

func TestValidateNamesOffendingAxis(t *testing.T) {
	if err := (Dimension{Width: 10, Height: 10}).Validate(); err != nil {
		t.Fatalf("expected valid dimension, got error: %v", err)
	}
	if err := (Dimension{Width: 0, Height: 10}).Validate(); err == nil {
		t.Fatal("expected error for zero width")
	}
	if err := (Dimension{Width: 10, Height: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestSizers(t *testing.T) {
	source := Dimension{Width: 200, Height: 100}

	tests := []struct {
		name  string
		sizer Sizer
		want  Dimension
	}{
		{"fixed", FixedSize{Width: 64, Height: 48}, Dimension{Width: 64, Height: 48}},
		{"fixed clamps zero", FixedSize{Width: 0, Height: 48}, Dimension{Width: 1, Height: 48}},
		{"scale half", ScaleFactor(0.5), Dimension{Width: 100, Height: 50}},
		{"scale tiny clamps", ScaleFactor(0.001), Dimension{Width: 1, Height: 1}},
		{"fit within square", FitWithin{Width: 50, Height: 50}, Dimension{Width: 50, Height: 25}},
		{"fit within wide", FitWithin{Width: 400, Height: 100}, Dimension{Width: 200, Height: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sizer.Size(source)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
