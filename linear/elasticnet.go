package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cupstack/waitlab/core/model"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
	"github.com/cupstack/waitlab/preprocessing"
)

// ElasticNet is a penalized linear regression model solved by cyclic
// coordinate descent.
//
// The penalty is alpha * (l1Ratio*‖w‖₁ + (1−l1Ratio)/2*‖w‖₂²): l1Ratio=1
// is the Lasso, l1Ratio=0 is Ridge. Columns are standardized internally and
// coefficients are reported on the original scale, so callers never see the
// scaling.
type ElasticNet struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	alpha   float64 // Penalty strength, must be positive
	l1Ratio float64 // L1 share of the penalty in [0, 1]
	maxIter int     // Iteration cap for coordinate descent
	tol     float64 // Convergence tolerance on max coefficient change

	// Learned parameters
	coef      *mat.VecDense
	intercept float64
	nFeatures int
	nIter     int
	converged bool
}

// Option is a configuration option for ElasticNet.
type Option func(*ElasticNet)

// WithAlpha sets the penalty strength.
func WithAlpha(alpha float64) Option {
	return func(e *ElasticNet) {
		e.alpha = alpha
	}
}

// WithL1Ratio sets the L1 share of the penalty (1 = Lasso, 0 = Ridge).
func WithL1Ratio(ratio float64) Option {
	return func(e *ElasticNet) {
		e.l1Ratio = ratio
	}
}

// WithMaxIter sets the coordinate-descent iteration cap.
func WithMaxIter(maxIter int) Option {
	return func(e *ElasticNet) {
		e.maxIter = maxIter
	}
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) Option {
	return func(e *ElasticNet) {
		e.tol = tol
	}
}

// NewElasticNet creates a new ElasticNet with the given options.
//
// Defaults: alpha=1.0, l1Ratio=0.5, maxIter=1000, tol=1e-4.
func NewElasticNet(options ...Option) *ElasticNet {
	e := &ElasticNet{
		state:   model.NewStateManager(),
		alpha:   1.0,
		l1Ratio: 0.5,
		maxIter: 1000,
		tol:     1e-4,
	}

	for _, opt := range options {
		opt(e)
	}

	e.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, e.name(),
		log.ComponentKey, "linear",
	)

	return e
}

// NewLasso creates an ElasticNet at the pure-L1 endpoint.
func NewLasso(options ...Option) *ElasticNet {
	return NewElasticNet(append([]Option{WithL1Ratio(1)}, options...)...)
}

// NewRidge creates an ElasticNet at the pure-L2 endpoint.
func NewRidge(options ...Option) *ElasticNet {
	return NewElasticNet(append([]Option{WithL1Ratio(0)}, options...)...)
}

func (e *ElasticNet) name() string {
	return nameForRatio(e.l1Ratio)
}

func (e *ElasticNet) validateParams() error {
	if e.alpha <= 0 {
		return errors.NewValueError(e.name()+".Fit", "alpha must be positive")
	}
	if e.l1Ratio < 0 || e.l1Ratio > 1 {
		return errors.NewValueError(e.name()+".Fit", "l1Ratio must be in [0, 1]")
	}
	if e.maxIter < 1 {
		return errors.NewValueError(e.name()+".Fit", "maxIter must be at least 1")
	}
	return nil
}

// Fit trains the model by cyclic coordinate descent.
//
// Columns are centered and scaled to unit variance, the target is centered,
// and each coordinate is soft-thresholded in turn until the largest
// coefficient change in a sweep falls below the tolerance. Hitting the
// iteration cap is not an error: the partial solution is kept and a
// ConvergenceWarning is logged.
//
// Parameters:
//   - X: Feature matrix of shape (n_samples, n_features)
//   - y: Target vector of shape (n_samples, 1)
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - DimensionError: if the number of samples in X and y don't match
//   - ValueError: if hyperparameters are out of range
//   - ModelError: if coefficients diverge to NaN/Inf
func (e *ElasticNet) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, e.name()+".Fit")

	startTime := time.Now()
	r, c := X.Dims()
	ry, cy := y.Dims()

	if e.logger != nil {
		e.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, r,
			log.FeaturesKey, c,
			log.LambdaKey, e.alpha,
		)
	}

	if err := e.validateParams(); err != nil {
		return err
	}
	if r == 0 || c == 0 {
		return errors.NewModelError(e.name()+".Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError(e.name()+".Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(e.name()+".Fit", "y must be a column vector")
	}

	ws, err := newCDWorkspace(X, y)
	if err != nil {
		return err
	}
	beta := make([]float64, c)
	resid := append([]float64(nil), ws.yc...)

	iters, converged, err := ws.descend(beta, resid, e.alpha, e.l1Ratio, e.maxIter, e.tol)
	if err != nil {
		return errors.NewModelError(e.name()+".Fit", "coordinate descent diverged", err)
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning(e.name(), iters,
			"coordinate descent did not reach tolerance"))
	}

	coefs, intercept := ws.unscale(beta)
	e.coef = mat.NewVecDense(c, coefs)
	e.intercept = intercept
	e.nFeatures = c
	e.nIter = iters
	e.converged = converged

	e.state.SetFitted()
	e.state.SetDimensions(c, r)

	if e.logger != nil {
		e.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, r,
			log.FeaturesKey, c,
			log.LambdaKey, e.alpha,
		)
	}

	return nil
}

// Predict generates predictions y = X*coef + intercept.
//
// Errors:
//   - NotFittedError: if the model hasn't been trained yet
//   - DimensionError: if X has a different number of features than training data
func (e *ElasticNet) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, e.name()+".Predict")
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError(e.name(), "Predict")
	}

	r, c := X.Dims()
	if c != e.nFeatures {
		return nil, errors.NewDimensionError(e.name()+".Predict", e.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := e.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * e.coef.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// GetWeights returns the learned coefficients on the original data scale.
func (e *ElasticNet) GetWeights() []float64 {
	if e.coef == nil {
		return nil
	}
	weights := make([]float64, e.coef.Len())
	for i := 0; i < e.coef.Len(); i++ {
		weights[i] = e.coef.AtVec(i)
	}
	return weights
}

// GetIntercept returns the learned intercept.
func (e *ElasticNet) GetIntercept() float64 {
	if !e.state.IsFitted() {
		return 0
	}
	return e.intercept
}

// NIter returns the number of coordinate-descent sweeps executed.
func (e *ElasticNet) NIter() int { return e.nIter }

// Converged reports whether the last Fit reached its tolerance.
func (e *ElasticNet) Converged() bool { return e.converged }

// IsFitted returns whether the model has been fitted.
func (e *ElasticNet) IsFitted() bool {
	return e.state.IsFitted()
}

// Score calculates the coefficient of determination (R²) on the given data
func (e *ElasticNet) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, e.name()+".Score")
	if !e.state.IsFitted() {
		return 0, errors.NewNotFittedError(e.name(), "Score")
	}

	yPred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}
	return scoreAgainstOwnMean(y, yPred)
}

// cdWorkspace holds the standardized copy of the data that coordinate
// descent sweeps over. Building it once lets a path fit reuse the
// standardization across every penalty value.
type cdWorkspace struct {
	n, p  int
	z     []float64 // column-major standardized X, length n*p
	yc    []float64 // centered target
	means []float64
	stds  []float64 // 0 for constant columns, which descend skips
	yMean float64
}

func newCDWorkspace(X mat.Matrix, y mat.Matrix) (*cdWorkspace, error) {
	n, p := X.Dims()
	ws := &cdWorkspace{
		n:  n,
		p:  p,
		z:  make([]float64, n*p),
		yc: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		ws.yMean += y.At(i, 0)
	}
	ws.yMean /= float64(n)
	for i := 0; i < n; i++ {
		ws.yc[i] = y.At(i, 0) - ws.yMean
	}

	scaler := preprocessing.NewStandardScaler()
	Z, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}

	ws.means = scaler.Mean()
	ws.stds = append([]float64(nil), scaler.Scale()...)
	for j, constant := range scaler.Constant() {
		if constant {
			// Constant column: standardized to zero, coefficient stays zero.
			ws.stds[j] = 0
			continue
		}
		col := ws.z[j*n : (j+1)*n]
		for i := 0; i < n; i++ {
			col[i] = Z.At(i, j)
		}
	}

	return ws, nil
}

// descend runs cyclic coordinate descent for one penalty value, updating
// beta and resid in place. beta holds standardized-scale coefficients and
// resid must equal yc − Z·beta on entry, which makes warm starts along a
// penalty path free.
func (ws *cdWorkspace) descend(beta, resid []float64, alpha, l1Ratio float64, maxIter int, tol float64) (iters int, converged bool, err error) {
	n := float64(ws.n)
	l1 := alpha * l1Ratio
	l2 := alpha * (1 - l1Ratio)

	for iters = 1; iters <= maxIter; iters++ {
		var maxChange float64

		for j := 0; j < ws.p; j++ {
			if ws.stds[j] == 0 {
				continue
			}
			col := ws.z[j*ws.n : (j+1)*ws.n]

			// rho = beta_j + <z_j, resid>/n; unit-variance columns make
			// the usual <z_j, z_j>/n denominator equal to one.
			var dot float64
			for i, v := range col {
				dot += v * resid[i]
			}
			rho := beta[j] + dot/n

			newBeta := softThreshold(rho, l1) / (1 + l2)
			if delta := newBeta - beta[j]; delta != 0 {
				for i, v := range col {
					resid[i] -= delta * v
				}
				beta[j] = newBeta
				if ad := math.Abs(delta); ad > maxChange {
					maxChange = ad
				}
			}
		}

		if scErr := errors.CheckScalar("max coefficient change", maxChange, iters); scErr != nil {
			return iters, false, scErr
		}
		if maxChange < tol {
			return iters, true, nil
		}
	}

	return maxIter, false, nil
}

// unscale maps standardized-scale coefficients back to the original data
// scale and derives the intercept.
func (ws *cdWorkspace) unscale(beta []float64) (coefs []float64, intercept float64) {
	coefs = make([]float64, ws.p)
	intercept = ws.yMean
	for j, b := range beta {
		if ws.stds[j] == 0 {
			continue
		}
		coefs[j] = b / ws.stds[j]
		intercept -= coefs[j] * ws.means[j]
	}
	return coefs, intercept
}

// softThreshold is the L1 proximal operator S(x, t) = sign(x)·max(|x|−t, 0).
func softThreshold(x, t float64) float64 {
	switch {
	case x > t:
		return x - t
	case x < -t:
		return x + t
	default:
		return 0
	}
}
