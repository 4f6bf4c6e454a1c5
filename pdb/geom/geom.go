// Package geom calculates some geometries, lengths and angles.
// Coordinates are stored as float32, but all arithmetic here is done in
// float64 so that comparisons against a cutoff do not depend on the
// order of operations.
package geom

import (
	"math"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/pdbnear/pdb/cmmn"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrDegenerate = Error("zero length vector")
	ErrBrokenXyz  = Error("broken coordinates")
)

type vec struct{ x, y, z float64 }

func toVec(a cmmn.Xyz) vec { return vec{float64(a.X), float64(a.Y), float64(a.Z)} }

// diff gets the difference of two vectors, end - start
func diff(start, end vec) vec {
	return vec{end.x - start.x, end.y - start.y, end.z - start.z}
}

// vecProd returns the vector product of two vectors
func vecProd(u, v vec) vec {
	return vec{
		u.y*v.z - u.z*v.y,
		u.z*v.x - u.x*v.z,
		u.x*v.y - u.y*v.x,
	}
}

// sclrProd returns the dot / scalar product of two vectors
func sclrProd(u, v vec) float64 { return u.x*v.x + u.y*v.y + u.z*v.z }

func len2(v vec) float64 { return sclrProd(v, v) }

// Dist is the plain Euclidean distance, sqrt(dx²+dy²+dz²).
// There are no limits and no checks. If a coordinate is NaN, so is
// the answer.
func Dist(a, b cmmn.Xyz) float64 {
	return math.Sqrt(len2(diff(toVec(a), toVec(b))))
}

// Angle takes three points and returns the angle a-b-c in radians.
func Angle(a, b, c cmmn.Xyz) (float64, error) {
	x1 := diff(toVec(b), toVec(a))
	x2 := diff(toVec(b), toVec(c))
	l1, l2 := len2(x1), len2(x2)
	if l1 == 0 || l2 == 0 {
		return math.NaN(), ErrDegenerate
	}
	cosalpha := sclrProd(x1, x2) / (math.Sqrt(l1) * math.Sqrt(l2))
	if cosalpha > 1 { // numerical noise
		return 0.0, nil
	}
	if cosalpha < -1 {
		return math.Pi, nil
	}
	return math.Acos(cosalpha), nil
}

// Dihedral takes four points and returns the dihedral angle in radians,
// from -pi to pi.
func Dihedral(ii, jj, kk, ll cmmn.Xyz) (float64, error) {
	i, j, k, l := toVec(ii), toVec(jj), toVec(kk), toVec(ll)
	r_ij := diff(i, j)
	r_kj := diff(k, j)
	r_kl := diff(k, l)
	lkj := len2(r_kj)
	if lkj == 0 {
		return math.NaN(), ErrDegenerate
	}
	var r_im, r_ln vec
	{
		tmp := sclrProd(r_ij, r_kj) / lkj
		r_im = diff(r_ij, vec{tmp * r_kj.x, tmp * r_kj.y, tmp * r_kj.z})
	}
	{
		tmp := sclrProd(r_kl, r_kj) / lkj
		r_ln = diff(vec{tmp * r_kj.x, tmp * r_kj.y, tmp * r_kj.z}, r_kl)
	}
	lim, lln := len2(r_im), len2(r_ln)
	if lim == 0 || lln == 0 {
		return math.NaN(), ErrDegenerate
	}
	var tau float64
	t_cos := sclrProd(r_im, r_ln) / (math.Sqrt(lim) * math.Sqrt(lln))
	switch { // Numerical errors can catch us. If so, no need to call acos()
	case t_cos > 1:
		tau = 0
	case t_cos < -1:
		tau = math.Pi
	default:
		tau = math.Acos(t_cos)
	}
	if sclrProd(r_ij, vecProd(r_kj, r_kl)) >= 0 {
		return tau, nil
	}
	return -tau, nil
}

// DistMatrix returns the symmetric matrix of distances between all
// pairs of points. Broken coordinates give -1 in their row and column.
func DistMatrix(pts []cmmn.Xyz) *matrix.FMatrix2d {
	n := len(pts)
	m := matrix.NewFMatrix2d(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := float32(-1)
			if pts[i].Ok() && pts[j].Ok() {
				d = float32(Dist(pts[i], pts[j]))
			}
			m.Mat[i][j], m.Mat[j][i] = d, d
		}
	}
	return m
}
