package renderer

import "testing"

func TestLayout(t *testing.T) {
	type spec struct {
		w, h       int
		expSize    int
		expOffsetX int
		expOffsetY int
	}

	specs := []spec{
		{1280, 720, 640, 0, 40},
		{720, 720, 360, 0, 180},
		{1920, 1080, 960, 0, 60},
		{1000, 300, 300, 200, 0},
		{1281, 721, 640, 0, 40},
		{0, 0, 1, 0, 0},
		{0, 720, 1, 0, 359},
		{1280, 0, 1, 639, 0},
		{1, 1, 1, 0, 0},
	}

	for specIndex, spec := range specs {
		l := Layout(spec.w, spec.h)
		if l.Size != spec.expSize {
			t.Fatalf("[spec %d] expected size to be %d; got %d", specIndex, spec.expSize, l.Size)
		}
		if l.Left.X != spec.expOffsetX || l.Left.Y != spec.expOffsetY {
			t.Fatalf("[spec %d] expected left origin to be (%d, %d); got (%d, %d)", specIndex, spec.expOffsetX, spec.expOffsetY, l.Left.X, l.Left.Y)
		}
		if l.Right.X != spec.expOffsetX+spec.expSize || l.Right.Y != spec.expOffsetY {
			t.Fatalf("[spec %d] expected right origin to be (%d, %d); got (%d, %d)", specIndex, spec.expOffsetX+spec.expSize, spec.expOffsetY, l.Right.X, l.Right.Y)
		}
	}
}

func TestLayoutSymmetry(t *testing.T) {
	for w := 0; w <= 300; w += 7 {
		for h := 0; h <= 300; h += 11 {
			l := Layout(w, h)
			if l.Size < 1 {
				t.Fatalf("[%dx%d] expected size >= 1; got %d", w, h, l.Size)
			}
			if l.Left.Width != l.Size || l.Left.Height != l.Size || l.Right.Width != l.Size || l.Right.Height != l.Size {
				t.Fatalf("[%dx%d] expected square eyes of size %d; got %+v", w, h, l.Size, l)
			}
			if l.Left.X+l.Size != l.Right.X {
				t.Fatalf("[%dx%d] expected right eye to start where the left one ends; got %+v", w, h, l)
			}
			if l.Left.X < 0 || l.Left.Y < 0 {
				t.Fatalf("[%dx%d] expected non-negative offsets; got %+v", w, h, l)
			}
			if Layout(w, h) != l {
				t.Fatalf("[%dx%d] expected layout to be deterministic", w, h)
			}
			if w >= 2 && h >= 1 && l.Right.X+l.Size > w {
				t.Fatalf("[%dx%d] expected stereo pair to fit the surface; got %+v", w, h, l)
			}
			if l.Eye(LeftEye) != l.Left || l.Eye(RightEye) != l.Right {
				t.Fatalf("[%dx%d] Eye returned the wrong viewport", w, h)
			}
		}
	}
}
