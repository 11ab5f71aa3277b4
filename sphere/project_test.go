package sphere

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPixelIndex(t *testing.T) {
	tests := []struct {
		name        string
		u           float64
		size        int
		want        int
		wantClamped bool
	}{
		{"centre even", 0, 300, 149, false},
		{"centre odd", 0, 301, 150, false},
		{"upper edge", 1, 300, 298, false},
		{"just above lower edge", -1 + 1e-9, 300, 1, false},
		{"lower edge clamps", -1, 300, 1, true},
		{"past upper edge clamps", 1 + 1e-9, 300, 298, true},
		{"below lower edge clamps", -1.5, 300, 1, true},
		{"NaN clamps", math.NaN(), 300, 1, true},
		{"smallest texture", 0.3, 3, 1, false},
		{"smallest texture low", -1, 3, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := PixelIndex(tt.u, tt.size)
			if got != tt.want || clamped != tt.wantClamped {
				t.Errorf("PixelIndex(%v, %d) = %d, %v; want %d, %v",
					tt.u, tt.size, got, clamped, tt.want, tt.wantClamped)
			}
		})
	}
}

func TestPixelIndexRange(t *testing.T) {
	for _, size := range []int{3, 4, 5, 17, 300} {
		for k := 0; k <= 1000; k++ {
			u := -1 + 2*float64(k)/1000
			idx, _ := PixelIndex(u, size)
			if idx < 1 || idx > size-2 {
				t.Fatalf("PixelIndex(%v, %d) = %d outside [1, %d]", u, size, idx, size-2)
			}
		}
	}
}

func TestLocateAxisCentres(t *testing.T) {
	axes := []struct {
		p    r3.Vec
		face Face
	}{
		{r3.Vec{X: 1}, FacePosX},
		{r3.Vec{X: -1}, FaceNegX},
		{r3.Vec{Y: 1}, FacePosY},
		{r3.Vec{Y: -1}, FaceNegY},
		{r3.Vec{Z: 1}, FacePosZ},
		{r3.Vec{Z: -1}, FaceNegZ},
	}

	for _, size := range []int{3, 5, 300, 301, 302} {
		// ceil((D-2)/2) from PixelIndex, i.e. (D-1)/2 rounded down: 149 for D=300.
		centre := (size - 2 + 1) / 2
		for _, a := range axes {
			s := Locate(a.p, size)
			if s.Face != a.face {
				t.Errorf("Locate(%v).Face = %s, want %s", a.p, s.Face, a.face)
			}
			if s.Row != centre || s.Col != centre {
				t.Errorf("size %d: Locate(%v) = (%d,%d), want (%d,%d)", size, a.p, s.Row, s.Col, centre, centre)
			}
			if s.Clamped {
				t.Errorf("Locate(%v) unexpectedly clamped", a.p)
			}
		}
	}
}

func TestFaceCoords(t *testing.T) {
	tests := []struct {
		name  string
		face  Face
		p     r3.Vec
		wantU float64
		wantV float64
	}{
		{"+X uses y,z", FacePosX, r3.Vec{X: 0.8, Y: 0.4, Z: -0.2}, 0.5, -0.25},
		{"-X uses y,z", FaceNegX, r3.Vec{X: -0.8, Y: 0.4, Z: -0.2}, 0.5, -0.25},
		{"+Y uses x,z", FacePosY, r3.Vec{X: -0.3, Y: 0.6, Z: 0.6}, -0.5, 1},
		{"-Y uses x,z", FaceNegY, r3.Vec{X: 0.3, Y: -0.6, Z: 0.15}, 0.5, 0.25},
		{"+Z uses x,y", FacePosZ, r3.Vec{X: 0.2, Y: -0.4, Z: 0.8}, 0.25, -0.5},
		{"-Z uses x,y", FaceNegZ, r3.Vec{X: 0.2, Y: -0.4, Z: -0.8}, 0.25, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := FaceCoords(tt.face, tt.p)
			if !floatEquals(u, tt.wantU, epsilon) || !floatEquals(v, tt.wantV, epsilon) {
				t.Errorf("FaceCoords(%s, %v) = (%v, %v), want (%v, %v)", tt.face, tt.p, u, v, tt.wantU, tt.wantV)
			}
		})
	}
}

func TestFaceCoordsStayInUnitSquare(t *testing.T) {
	g, err := NewGrid(90, 45)
	if err != nil {
		t.Fatal(err)
	}
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			p := g.Direction(row, col)
			u, v := FaceCoords(Classify(p), p)
			if math.Abs(u) > 1 || math.Abs(v) > 1 {
				t.Fatalf("(%d,%d): face coords (%v, %v) outside [-1, 1]", row, col, u, v)
			}
		}
	}
}
