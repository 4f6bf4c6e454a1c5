package geom_test

import (
	"math"
	"testing"

	. "github.com/andrew-torda/pdbnear/pdb/cmmn"
	. "github.com/andrew-torda/pdbnear/pdb/geom"
)

var disttests = []struct {
	name string
	x1   Xyz
	x2   Xyz
	res  float64
}{
	{"zero", Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, 0},
	{"onex", Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, 1},
	{"345 ", Xyz{X: 3, Y: 4, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, 5},
	{"222 ", Xyz{X: 1, Y: 1, Z: 1}, Xyz{X: -1, Y: -1, Z: -1}, math.Sqrt(12)},
	{"big ", Xyz{X: 10, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, 10},
}

// permuteXyz rotates x, y znd z for tests whose answers should not change
// when we move the axes around.
func permuteXyz(x Xyz) Xyz {
	x.X, x.Y, x.Z = x.Y, x.Z, x.X
	return x
}

func TestDist(t *testing.T) {
	for _, test := range disttests {
		x1, x2 := test.x1, test.x2
		dist1 := Dist(x1, x2)
		dist2 := Dist(x2, x1)
		x1, x2 = permuteXyz(x1), permuteXyz(x2)
		dist3 := Dist(x1, x2)
		x1, x2 = permuteXyz(x1), permuteXyz(x2)
		dist4 := Dist(x1, x2)
		if dist1 != dist2 || dist1 != dist3 || dist1 != dist4 {
			t.Errorf("test %s. Did not get identical results, %f %f %f %f",
				test.name, dist1, dist2, dist3, dist4)
		}
		if notApproxEqual(dist1, test.res) {
			t.Errorf("test %s got %f wanted %f", test.name, dist1, test.res)
		}
	}
}

func TestDistNaN(t *testing.T) {
	nan := float32(math.NaN())
	if d := Dist(Xyz{X: nan, Y: 0, Z: 0}, Xyz{}); !math.IsNaN(d) {
		t.Errorf("wanted NaN, got %f", d)
	}
}

// notApproxEqual returns true if x and y are not approximately equal.
func notApproxEqual(x, y float64) bool {
	diff := x - y
	if diff < 0 {
		diff = -diff
	}
	if math.IsNaN(diff) {
		return true
	}
	if diff > 0.00001 {
		return true
	}
	return false
}

var angletests = []struct {
	x1, x2, x3 Xyz
	res        float64
}{
	{Xyz{X: +1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0.9999, Y: 0, Z: 0}, 0},
	{Xyz{X: -0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi},
	{Xyz{X: +0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0.1000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: +0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 9.9000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 1, Z: 0}, math.Pi * 3 / 4},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 9.9, Y: 9.9, Z: 0}, math.Pi * 3 / 4},
}

func TestAngle(t *testing.T) {
	for _, test := range angletests {
		x1, x2, x3 := test.x1, test.x2, test.x3
		for i := 0; i < 3; i++ {
			if a, err := Angle(x1, x2, x3); err != nil {
				t.Errorf("%v error with %v %v %v", err, x1, x2, x3)
			} else if notApproxEqual(a, test.res) {
				t.Errorf("TestAngle got %f wanted %f, %v, %v, %v",
					a, test.res, x1, x2, x3)
			}
			x1, x2, x3 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3)
		}
	}
}

func TestAngleDegenerate(t *testing.T) {
	if _, err := Angle(Xyz{X: 1, Y: 1, Z: 1}, Xyz{X: 1, Y: 1, Z: 1}, Xyz{X: 0, Y: 0, Z: 0}); err != ErrDegenerate {
		t.Errorf("wanted ErrDegenerate, got %v", err)
	}
}

var dhdrltests = []struct {
	x1, x2, x3, x4 Xyz
	res            float64
}{
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 0}, 0},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 1e-7}, 0},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: -1, Z: 0}, math.Pi},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: 1}, -math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: -1}, math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: -1}, math.Pi / 4},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: -1, Z: -1}, math.Pi * (3.0 / 4.0)},
}

func TestDihedral(t *testing.T) {
	for _, test := range dhdrltests {
		x1, x2, x3, x4 := test.x1, test.x2, test.x3, test.x4
		const emsg = "error with %v %v %v %v wanted: %.3g got: %.3g"
		for i := 0; i < 3; i++ {
			a, err := Dihedral(x1, x2, x3, x4)
			if err != nil {
				t.Errorf("%v with %v %v %v %v", err, x1, x2, x3, x4)
			}
			if notApproxEqual(a, test.res) {
				t.Errorf(emsg, x1, x2, x3, x4, test.res, a)
			}
			x1, x2, x3, x4 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3), permuteXyz(x4)
		}
	}
}

func TestDihedralDegenerate(t *testing.T) {
	p := Xyz{X: 1, Y: 1, Z: 1}
	if _, err := Dihedral(Xyz{X: 0, Y: 1, Z: 0}, p, p, Xyz{X: 3, Y: 1, Z: 0}); err != ErrDegenerate {
		t.Errorf("coincident middle atoms, wanted ErrDegenerate got %v", err)
	}
	// i sits on the j-k axis, so there is no plane
	_, err := Dihedral(Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 0})
	if err != ErrDegenerate {
		t.Errorf("collinear, wanted ErrDegenerate got %v", err)
	}
}

func TestDistMatrix(t *testing.T) {
	pts := []Xyz{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}, BrokenXyz, {X: 0, Y: 0, Z: 2}}
	m := DistMatrix(pts)
	if nr, nc := m.Size(); nr != 4 || nc != 4 {
		t.Fatalf("size %d %d", nr, nc)
	}
	for i := range pts {
		if m.Mat[i][i] != 0 {
			t.Errorf("diagonal %d is %f", i, m.Mat[i][i])
		}
		for j := range pts {
			if m.Mat[i][j] != m.Mat[j][i] {
				t.Errorf("not symmetric at %d %d", i, j)
			}
		}
	}
	if m.Mat[0][1] != 5 || m.Mat[0][3] != 2 {
		t.Errorf("distances wrong:\n%s", m)
	}
	if m.Mat[2][0] != -1 || m.Mat[1][2] != -1 {
		t.Errorf("broken atom not marked:\n%s", m)
	}
}
