package transform

import "math"

// SmoothNormals computes the per-vertex average of the unit normals of the
// faces touching each vertex (each face counts equally, whatever its area),
// used as the MG2 normal predictor (spec.md §4.6.8). It must run over the
// already-quantized (reconstructed) vertex positions, on both the encode and
// decode side, so encoder and decoder derive an identical prediction without
// exchanging it on the wire. Degenerate triangles (near-zero area) don't
// contribute; vertices touched by no non-degenerate triangle predict (0,0,0).
func SmoothNormals(positions [][3]float32, triangles []Triangle) [][3]float32 {
	n := len(positions)
	acc := make([][3]float32, n)

	for _, tri := range triangles {
		p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		e1 := sub3(p1, p0)
		e2 := sub3(p2, p0)
		faceNormal := cross3(e1, e2)

		length := norm3(faceNormal)
		if length <= 1e-10 {
			continue
		}

		unit := scale3(faceNormal, 1/length)
		for _, vi := range tri {
			acc[vi] = add3(acc[vi], unit)
		}
	}

	out := make([][3]float32, n)
	for i, a := range acc {
		l := norm3(a)
		if l > 1e-20 {
			out[i] = scale3(a, 1/l)
		}
	}

	return out
}

// Frame is the orthonormal basis built around a predicted normal, used to
// express the actual normal as a small (phi, theta) deviation (spec.md
// §4.6.9).
type Frame struct {
	X, Y, Z [3]float32
}

// BuildFrame constructs the basis frame for a (possibly non-unit, possibly
// zero) smooth-normal prediction. A zero prediction falls back to (0,0,1) so
// the frame stays well-defined for vertices touched by no non-degenerate
// triangle.
func BuildFrame(smooth [3]float32) Frame {
	z := smooth
	if norm3(z) <= 1e-20 {
		z = [3]float32{0, 0, 1}
	}

	x := [3]float32{-z[1], z[0] - z[2], z[1]}

	lenSq := 2*x[0]*x[0] + x[1]*x[1]
	length := float32(math.Sqrt(float64(lenSq)))
	if length > 1e-20 {
		x = scale3(x, 1/length)
	}

	y := cross3(z, x)

	return Frame{X: x, Y: y, Z: z}
}

// Project expresses v in the frame's basis.
func (f Frame) Project(v [3]float32) [3]float32 {
	return [3]float32{dot3(v, f.X), dot3(v, f.Y), dot3(v, f.Z)}
}

// Unproject is Project's inverse: it maps a vector expressed in the frame's
// basis back to the ambient coordinate system.
func (f Frame) Unproject(v [3]float32) [3]float32 {
	return add3(add3(scale3(f.X, v[0]), scale3(f.Y, v[1])), scale3(f.Z, v[2]))
}

// EncodeNormal quantizes the actual unit normal n0 against the smooth
// prediction, producing the (magnitude, phi, theta) integer triple spec.md
// §4.6.10 stores on the wire.
func EncodeNormal(n0, smooth [3]float32, normalPrecision float32) (magnitude, phi, theta int32) {
	magn := norm3(n0)
	if dot3(n0, smooth) < 0 {
		magn = -magn
	}

	m := int32(math.Round(float64(magn / normalPrecision)))

	var n [3]float32
	if magn != 0 {
		n = scale3(n0, 1/magn)
	} else {
		n = n0
	}

	frame := BuildFrame(smooth)
	np := frame.Project(n)

	phiRad := math.Acos(float64(clampF32(np[2], -1, 1)))
	thetaRad := math.Atan2(float64(np[1]), float64(np[0]))

	intPhi := int32(math.Round((1 / float64(normalPrecision)) * (2 / math.Pi) * phiRad))

	thetaScale := thetaScaleFor(intPhi)
	intTheta := int32(0)
	if thetaScale != 0 {
		intTheta = int32(math.Round((thetaRad + math.Pi) * thetaScale))
	}

	return m, intPhi, intTheta
}

// DecodeNormal inverts EncodeNormal.
func DecodeNormal(magnitude, phi, theta int32, smooth [3]float32, normalPrecision float32) [3]float32 {
	magn := float32(magnitude) * normalPrecision
	phiRad := float64(phi) * float64(normalPrecision) * (math.Pi / 2)

	thetaScale := thetaScaleFor(phi)
	var thetaRad float64
	if thetaScale != 0 {
		thetaRad = float64(theta)/thetaScale - math.Pi
	}

	sinPhi, cosPhi := math.Sincos(phiRad)
	sinTheta, cosTheta := math.Sincos(thetaRad)

	np := [3]float32{
		float32(sinPhi * cosTheta),
		float32(sinPhi * sinTheta),
		float32(cosPhi),
	}

	frame := BuildFrame(smooth)
	dir := frame.Unproject(np)

	return scale3(dir, magn)
}

func thetaScaleFor(intPhi int32) float64 {
	switch {
	case intPhi == 0:
		return 0
	case intPhi <= 4:
		return 2 / math.Pi
	default:
		return float64(intPhi) / (2 * math.Pi)
	}
}
