package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Measurement is an observed landmark position x, y
type Measurement [2]float64

// StateMean represents the 1x4 state x, y, x velocity, y velocity
type StateMean []float64

// StateCov represents the 4x4 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// NewStateCov returns a zeroed state covariance
func NewStateCov() *StateCov {
	return &StateCov{mat.NewDense(4, 4, nil)}
}

// KalmanFilterParams are the noise weights of the constant velocity model.
// Landmark positions are normalised to the frame so the weights are fractions
// of the frame size.
type KalmanFilterParams struct {
	// PositionStd is the process noise standard deviation of a position per
	// frame
	PositionStd float64
	// VelocityStd is the process noise standard deviation of a velocity per
	// frame
	VelocityStd float64
	// MeasurementStd is the standard deviation of the pose model keypoint
	// position
	MeasurementStd float64
}

// DefaultKalmanFilterParams returns weights suited to a person sitting at a
// desk in front of a webcam
func DefaultKalmanFilterParams() KalmanFilterParams {
	return KalmanFilterParams{
		PositionStd:    0.01,
		VelocityStd:    0.005,
		MeasurementStd: 0.02,
	}
}

// KalmanFilter is a constant velocity Kalman filter for a single 2D point
type KalmanFilter struct {
	params    KalmanFilterParams
	motionMat *mat.Dense
	updateMat *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(p KalmanFilterParams) *KalmanFilter {

	ndim := 2
	dt := 1.0

	// identity with the velocity added to the position for each frame
	motionMat := mat.NewDense(4, 4, nil)

	for i := 0; i < 4; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, dt)
	}

	// only the position is observed
	updateMat := mat.NewDense(2, 4, nil)

	for i := 0; i < ndim; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		params:    p,
		motionMat: motionMat,
		updateMat: updateMat,
	}
}

// Initiate initializes the state mean and covariance from the first
// measurement
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement Measurement) {

	mean[0] = measurement[0]
	mean[1] = measurement[1]
	mean[2] = 0
	mean[3] = 0

	std := [4]float64{
		2 * kf.params.PositionStd,
		2 * kf.params.PositionStd,
		10 * kf.params.VelocityStd,
		10 * kf.params.VelocityStd,
	}

	covariance.Zero()

	for i, v := range std {
		covariance.Set(i, i, v*v)
	}
}

// Predict advances the state mean and covariance by one frame
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	meanVec := mat.NewVecDense(4, []float64{mean[0], mean[1], mean[2], mean[3]})

	var next mat.VecDense
	next.MulVec(kf.motionMat, meanVec)

	for i := 0; i < 4; i++ {
		mean[i] = next.AtVec(i)
	}

	// motion noise on the diagonal
	motionCov := mat.NewDiagDense(4, []float64{
		kf.params.PositionStd * kf.params.PositionStd,
		kf.params.PositionStd * kf.params.PositionStd,
		kf.params.VelocityStd * kf.params.VelocityStd,
		kf.params.VelocityStd * kf.params.VelocityStd,
	})

	var tmp, cov mat.Dense
	tmp.Mul(kf.motionMat, covariance.Dense)
	cov.Mul(&tmp, kf.motionMat.T())
	cov.Add(&cov, motionCov)

	covariance.Dense = &cov
}

// Update corrects the state mean and covariance with a new measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement Measurement) error {

	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// solve S * K^T = H * P for the transposed Kalman gain
	B := mat.NewDense(4, 2, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	var kalmanGain mat.Dense

	if err := chol.SolveTo(&kalmanGain, B.T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := mat.NewVecDense(2, []float64{
		measurement[0] - projectedMean[0],
		measurement[1] - projectedMean[1],
	})

	var correction mat.VecDense
	correction.MulVec(kalmanGain.T(), innovation)

	for i := 0; i < 4; i++ {
		mean[i] += correction.AtVec(i)
	}

	// P = P - K * S * K^T
	var tmp, reduce, cov mat.Dense
	tmp.Mul(kalmanGain.T(), projectedCov)
	reduce.Mul(&tmp, &kalmanGain)
	cov.Sub(covariance.Dense, &reduce)

	covariance.Dense = &cov

	return nil
}

// project maps the state mean and covariance to measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (Measurement, *mat.SymDense) {

	r := kf.params.MeasurementStd * kf.params.MeasurementStd

	var tmp, hph mat.Dense
	tmp.Mul(kf.updateMat, covariance.Dense)
	hph.Mul(&tmp, kf.updateMat.T())

	projectedCov := mat.NewSymDense(2, nil)

	for i := 0; i < 2; i++ {
		for j := i; j < 2; j++ {
			projectedCov.SetSym(i, j, hph.At(i, j))
		}
		projectedCov.SetSym(i, i, projectedCov.At(i, i)+r)
	}

	return Measurement{mean[0], mean[1]}, projectedCov
}
