package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/pkg/errors"
)

// Floor applied to l1Ratio when sizing the path start, so the Ridge
// endpoint still gets a finite largest penalty.
const l1RatioFloor = 1e-3

// LambdaPath builds a geometrically spaced, strictly decreasing penalty
// sequence for the given data.
//
// The first entry is the smallest penalty at which a pure-L1 fit has every
// coefficient exactly zero, max_j |<z_j, y_c>| / (n * l1Ratio), computed on
// standardized columns and a centered target; the last entry is that value
// times ratio. For small l1Ratio the divisor is floored so the Ridge
// endpoint keeps a finite, very large path start. Descending order matters:
// the path begins at its most-penalized point, which cross-validation uses
// as the null end of the curve, and warm starts walk down from there.
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - ValueError: if length < 2, ratio outside (0, 1), l1Ratio outside
//     [0, 1], or the target has no variance
func LambdaPath(X mat.Matrix, y mat.Matrix, l1Ratio float64, length int, ratio float64) ([]float64, error) {
	r, c := X.Dims()
	ry, _ := y.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("LambdaPath", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, errors.NewDimensionError("LambdaPath", r, ry, 0)
	}
	if length < 2 {
		return nil, errors.NewValueError("LambdaPath", "path length must be at least 2")
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, errors.NewValueError("LambdaPath", "path ratio must be in (0, 1)")
	}
	if l1Ratio < 0 || l1Ratio > 1 {
		return nil, errors.NewValueError("LambdaPath", "l1Ratio must be in [0, 1]")
	}

	ws, err := newCDWorkspace(X, y)
	if err != nil {
		return nil, err
	}
	lmax := lambdaMax(ws, l1Ratio)
	if lmax == 0 {
		return nil, errors.NewValueError("LambdaPath",
			"penalty path undefined: target is constant or no column varies")
	}

	lambdas := make([]float64, length)
	step := math.Pow(ratio, 1/float64(length-1))
	lambdas[0] = lmax
	for i := 1; i < length; i++ {
		lambdas[i] = lambdas[i-1] * step
	}
	return lambdas, nil
}

func lambdaMax(ws *cdWorkspace, l1Ratio float64) float64 {
	var maxDot float64
	for j := 0; j < ws.p; j++ {
		if ws.stds[j] == 0 {
			continue
		}
		col := ws.z[j*ws.n : (j+1)*ws.n]
		var dot float64
		for i, v := range col {
			dot += v * ws.yc[i]
		}
		if ad := math.Abs(dot); ad > maxDot {
			maxDot = ad
		}
	}
	return maxDot / (float64(ws.n) * math.Max(l1Ratio, l1RatioFloor))
}

// pathFit holds the coordinate-descent solutions along one penalty path,
// coefficients on the original data scale.
type pathFit struct {
	lambdas    []float64
	coefs      [][]float64
	intercepts []float64
}

// fitPath runs coordinate descent at every penalty value in order, warm
// starting each solve from the previous one. Path points that hit the
// iteration cap are kept; a single warning summarizes them afterwards.
func fitPath(X mat.Matrix, y mat.Matrix, lambdas []float64, l1Ratio float64, maxIter int, tol float64) (*pathFit, error) {
	name := nameForRatio(l1Ratio)

	ws, err := newCDWorkspace(X, y)
	if err != nil {
		return nil, err
	}
	beta := make([]float64, ws.p)
	resid := append([]float64(nil), ws.yc...)

	pf := &pathFit{
		lambdas:    lambdas,
		coefs:      make([][]float64, len(lambdas)),
		intercepts: make([]float64, len(lambdas)),
	}

	unconverged := 0
	for li, lambda := range lambdas {
		_, converged, err := ws.descend(beta, resid, lambda, l1Ratio, maxIter, tol)
		if err != nil {
			return nil, errors.NewModelError(name+".fitPath",
				fmt.Sprintf("diverged at path index %d", li), err)
		}
		if !converged {
			unconverged++
		}
		pf.coefs[li], pf.intercepts[li] = ws.unscale(beta)
	}

	if unconverged > 0 {
		errors.Warn(errors.NewConvergenceWarning(name, maxIter,
			fmt.Sprintf("%d of %d path points did not reach tolerance", unconverged, len(lambdas))))
	}
	return pf, nil
}

// predictAt evaluates the path solution at index li on the given rows.
func (pf *pathFit) predictAt(li int, X mat.Matrix) *mat.VecDense {
	r, c := X.Dims()
	coefs := pf.coefs[li]
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		pred := pf.intercepts[li]
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * coefs[j]
		}
		out.SetVec(i, pred)
	}
	return out
}

func nameForRatio(l1Ratio float64) string {
	switch l1Ratio {
	case 1:
		return "Lasso"
	case 0:
		return "Ridge"
	default:
		return "ElasticNet"
	}
}
