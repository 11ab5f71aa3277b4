package sphere

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func mustFaces(t testing.TB, faces [NumFaces]mat.Matrix) *CubeFaces {
	t.Helper()
	cf, err := NewCubeFaces(faces)
	if err != nil {
		t.Fatal(err)
	}
	return cf
}

func TestProjectShapeAndRange(t *testing.T) {
	cf := mustFaces(t, patternFaces(300))

	img, err := Project(360, 180, cf)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if img.Width != 360 || img.Height != 180 || len(img.Pix) != 360*180 {
		t.Fatalf("image is %dx%d (%d values), want 360x180", img.Width, img.Height, len(img.Pix))
	}
	for i, v := range img.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("pixel %d is not finite: %v", i, v)
		}
		if v < 0 || v > 1 {
			t.Fatalf("pixel %d = %v outside [0, 1]", i, v)
		}
	}

	r, c := img.Dense().Dims()
	if r != 180 || c != 360 {
		t.Errorf("Dense().Dims() = %d, %d; want 180, 360", r, c)
	}
}

func TestProjectSmallShapes(t *testing.T) {
	cf := mustFaces(t, patternFaces(5))
	for _, dims := range [][2]int{{1, 1}, {2, 1}, {3, 7}, {64, 32}} {
		img, err := Project(dims[0], dims[1], cf)
		if err != nil {
			t.Fatalf("Project(%d, %d) error = %v", dims[0], dims[1], err)
		}
		if img.Width != dims[0] || img.Height != dims[1] {
			t.Errorf("Project(%d, %d) gave %dx%d", dims[0], dims[1], img.Width, img.Height)
		}
	}
}

func TestProjectInvalidDimension(t *testing.T) {
	cf := mustFaces(t, patternFaces(5))
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-3, -3}} {
		img, err := Project(dims[0], dims[1], cf)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("Project(%d, %d) error = %v, want ErrInvalidDimension", dims[0], dims[1], err)
		}
		if img != nil {
			t.Error("expected no partial image on error")
		}
	}
}

func TestProjectMatchesPerPixelPipeline(t *testing.T) {
	cf := mustFaces(t, patternFaces(11))
	img, err := Project(48, 24, cf)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := NewGrid(48, 24)
	for row := 0; row < 24; row++ {
		for col := 0; col < 48; col++ {
			s := Locate(g.Direction(row, col), cf.Size())
			want := cf.Face(s.Face).BoxMean(s.Row, s.Col)
			if got := img.At(row, col); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestProjectHotCorner(t *testing.T) {
	// Each face is zero except for its (0,0) corner. Only samples whose
	// box filter covers that corner, i.e. centre (1,1), may light up.
	const size = 6
	var faces [NumFaces]mat.Matrix
	for i := range faces {
		m := mat.NewDense(size, size, nil)
		m.Set(0, 0, 1)
		faces[i] = m
	}
	cf := mustFaces(t, faces)

	img, err := Project(240, 120, cf)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := NewGrid(240, 120)

	lit := 0
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			s := Locate(g.Direction(row, col), size)
			nearCorner := s.Row == 1 && s.Col == 1
			v := img.At(row, col)
			switch {
			case nearCorner && !floatEquals(v, 1.0/9, 1e-15):
				t.Fatalf("(%d,%d) projects onto the corner but has value %v", row, col, v)
			case !nearCorner && v != 0:
				t.Fatalf("(%d,%d) is away from the corner but has value %v", row, col, v)
			}
			if nearCorner {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("no sample projected near the corner")
	}
}

func TestProjectDeterministicAcrossWorkers(t *testing.T) {
	prev := GetParallelConfig()
	t.Cleanup(func() { SetParallelConfig(prev) })

	cf := mustFaces(t, patternFaces(32))

	SetParallelConfig(ParallelConfig{NumWorkers: 1})
	seq, err := Project(120, 60, cf)
	if err != nil {
		t.Fatal(err)
	}
	SetParallelConfig(ParallelConfig{NumWorkers: 8, GrainSize: 1})
	par, err := Project(120, 60, cf)
	if err != nil {
		t.Fatal(err)
	}

	if seq.Clamped != par.Clamped {
		t.Errorf("Clamped differs: %d vs %d", seq.Clamped, par.Clamped)
	}
	for i := range seq.Pix {
		if seq.Pix[i] != par.Pix[i] {
			t.Fatalf("pixel %d differs: %v vs %v", i, seq.Pix[i], par.Pix[i])
		}
	}
}

func TestProjectNilFaces(t *testing.T) {
	if _, err := Project(10, 5, nil); !errors.Is(err, ErrTextureSize) {
		t.Errorf("Project(nil faces) error = %v, want ErrTextureSize", err)
	}
	if _, err := Project(10, 5, &CubeFaces{}); !errors.Is(err, ErrTextureSize) {
		t.Errorf("Project(empty faces) error = %v, want ErrTextureSize", err)
	}
	if _, err := Generate(10, 5, nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("Generate(nil provider) error = %v, want ErrNilProvider", err)
	}
}

func TestImageGray16(t *testing.T) {
	img := &Image{Width: 3, Height: 2, Pix: []float64{0, 0.5, 1, -0.2, 1.7, 0.25}}
	g := img.Gray16()
	want := []uint16{0, 32768, 65535, 0, 65535, 16384}
	for i, w := range want {
		x, y := i%3, i/3
		if got := g.Gray16At(x, y).Y; got != w {
			t.Errorf("Gray16At(%d,%d) = %d, want %d", x, y, got, w)
		}
	}
	if f := img.Float32(); len(f) != 6 || f[1] != 0.5 {
		t.Errorf("Float32() = %v", f)
	}
}

func BenchmarkProject360x180(b *testing.B) {
	cf := mustFaces(b, patternFaces(302))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Project(360, 180, cf); err != nil {
			b.Fatal(err)
		}
	}
}
