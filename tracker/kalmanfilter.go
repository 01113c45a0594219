package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// ndim is the dimension of the measurement space (x, y, a, h)
	ndim = 4
	// stateDim is the dimension of the state space, measurement plus the
	// velocity of each component
	stateDim = 2 * ndim
)

// KalmanFilter is a constant velocity Kalman filter tracking a bounding box
// in (centre x, centre y, aspect ratio, height) space
type KalmanFilter struct {
	stdWeightPosition float64
	stdWeightVelocity float64
	// motionMat is the 8x8 state transition matrix
	motionMat *mat.Dense
	// updateMat is the 4x8 state to measurement projection
	updateMat *mat.Dense
}

// NewKalmanFilter returns a filter with the given position and velocity
// uncertainty weights, relative to the box height
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float64) *KalmanFilter {

	motion := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		motion.Set(i, i, 1)
	}

	// position += velocity * dt, with dt = 1 frame
	for i := 0; i < ndim; i++ {
		motion.Set(i, ndim+i, 1)
	}

	update := mat.NewDense(ndim, stateDim, nil)

	for i := 0; i < ndim; i++ {
		update.Set(i, i, 1)
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motion,
		updateMat:         update,
	}
}

// Initiate creates a track state from an unassociated measurement.  Velocity
// components start at zero.
func (kf *KalmanFilter) Initiate(measurement []float64) (*mat.VecDense, *mat.SymDense) {

	mean := mat.NewVecDense(stateDim, nil)

	for i := 0; i < ndim; i++ {
		mean.SetVec(i, measurement[i])
	}

	h := measurement[3]
	std := []float64{
		2 * kf.stdWeightPosition * h,
		2 * kf.stdWeightPosition * h,
		1e-2,
		2 * kf.stdWeightPosition * h,
		10 * kf.stdWeightVelocity * h,
		10 * kf.stdWeightVelocity * h,
		1e-5,
		10 * kf.stdWeightVelocity * h,
	}

	return mean, diagSquared(std)
}

// Predict runs the prediction step, advancing the state by one frame
func (kf *KalmanFilter) Predict(mean *mat.VecDense, cov *mat.SymDense) (*mat.VecDense, *mat.SymDense) {

	h := mean.AtVec(3)
	std := []float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-2,
		kf.stdWeightPosition * h,
		kf.stdWeightVelocity * h,
		kf.stdWeightVelocity * h,
		1e-5,
		kf.stdWeightVelocity * h,
	}

	var newMean mat.VecDense
	newMean.MulVec(kf.motionMat, mean)

	// F * P * F^T + Q
	var fp, fpft mat.Dense
	fp.Mul(kf.motionMat, cov)
	fpft.Mul(&fp, kf.motionMat.T())

	newCov := symmetric(&fpft)
	newCov.AddSym(newCov, diagSquared(std))

	return &newMean, newCov
}

// project maps the state distribution into measurement space
func (kf *KalmanFilter) project(mean *mat.VecDense, cov *mat.SymDense) (*mat.VecDense, *mat.SymDense) {

	h := mean.AtVec(3)
	std := []float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-1,
		kf.stdWeightPosition * h,
	}

	var projMean mat.VecDense
	projMean.MulVec(kf.updateMat, mean)

	var hp, hpht mat.Dense
	hp.Mul(kf.updateMat, cov)
	hpht.Mul(&hp, kf.updateMat.T())

	projCov := symmetric(&hpht)
	projCov.AddSym(projCov, diagSquared(std))

	return &projMean, projCov
}

// Update runs the correction step with a new measurement
func (kf *KalmanFilter) Update(mean *mat.VecDense, cov *mat.SymDense,
	measurement []float64) (*mat.VecDense, *mat.SymDense, error) {

	projMean, projCov := kf.project(mean, cov)

	var chol mat.Cholesky

	if ok := chol.Factorize(projCov); !ok {
		return nil, nil, errors.New("projected covariance is not positive definite")
	}

	// kalman gain K = P H^T S^-1, solved as S K^T = H P
	var hp mat.Dense
	hp.Mul(kf.updateMat, cov)

	var gainT mat.Dense

	if err := chol.SolveTo(&gainT, &hp); err != nil {
		return nil, nil, fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	gain := gainT.T()

	innovation := mat.NewVecDense(ndim, nil)

	for i := 0; i < ndim; i++ {
		innovation.SetVec(i, measurement[i]-projMean.AtVec(i))
	}

	var correction mat.VecDense
	correction.MulVec(gain, innovation)

	var newMean mat.VecDense
	newMean.AddVec(mean, &correction)

	// P - K S K^T
	var ks, ksk mat.Dense
	ks.Mul(gain, projCov)
	ksk.Mul(&ks, &gainT)

	var newCov mat.Dense
	newCov.Sub(cov, &ksk)

	return &newMean, symmetric(&newCov), nil
}

// diagSquared returns a diagonal matrix of the squared values
func diagSquared(std []float64) *mat.SymDense {

	d := mat.NewSymDense(len(std), nil)

	for i, s := range std {
		d.SetSym(i, i, s*s)
	}

	return d
}

// symmetric copies the upper triangle of a square matrix that is symmetric
// up to rounding error
func symmetric(m *mat.Dense) *mat.SymDense {

	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}

	return s
}
