package tracker

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// floatsEqual compares slices of float64
func floatsEqual(a, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if diff := a[i] - b[i]; diff > epsilon || diff < -epsilon {
			return false
		}
	}
	return true
}

// matricesEqual compare matrices
func matricesEqual(a, b mat.Matrix, epsilon float64) bool {
	r1, c1 := a.Dims()
	r2, c2 := b.Dims()

	if r1 != r2 || c1 != c2 {
		return false
	}

	for i := 0; i < r1; i++ {
		for j := 0; j < c1; j++ {
			if diff := a.At(i, j) - b.At(i, j); diff > epsilon || diff < -epsilon {
				return false
			}
		}
	}

	return true
}

// TestKalmanFilter steps the filter through initiate, predict and update
// with values worked out by hand from the default weights
func TestKalmanFilter(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanFilterParams())

	mean := make(StateMean, 4)
	covariance := NewStateCov()

	kf.Initiate(mean, covariance, Measurement{0.5, 0.4})

	expectedMeanInit := StateMean{0.5, 0.4, 0, 0}
	expectedCovarianceInit := mat.NewDense(4, 4, []float64{
		4e-4, 0, 0, 0,
		0, 4e-4, 0, 0,
		0, 0, 2.5e-3, 0,
		0, 0, 0, 2.5e-3,
	})

	if !floatsEqual(mean, expectedMeanInit, 1e-9) {
		t.Errorf("expected mean %v, got %v", expectedMeanInit, mean)
	}

	if !matricesEqual(covariance, expectedCovarianceInit, 1e-9) {
		t.Errorf("expected covariance %v, got %v",
			mat.Formatted(expectedCovarianceInit, mat.Prefix(""), mat.Excerpt(0)),
			mat.Formatted(covariance, mat.Prefix(""), mat.Excerpt(0)),
		)
	}

	kf.Predict(mean, covariance)

	expectedCovariancePredict := mat.NewDense(4, 4, []float64{
		3e-3, 0, 2.5e-3, 0,
		0, 3e-3, 0, 2.5e-3,
		2.5e-3, 0, 2.525e-3, 0,
		0, 2.5e-3, 0, 2.525e-3,
	})

	if !floatsEqual(mean, expectedMeanInit, 1e-9) {
		t.Errorf("stationary predict moved mean to %v", mean)
	}

	if !matricesEqual(covariance, expectedCovariancePredict, 1e-9) {
		t.Errorf("expected covariance %v, got %v",
			mat.Formatted(expectedCovariancePredict, mat.Prefix(""), mat.Excerpt(0)),
			mat.Formatted(covariance, mat.Prefix(""), mat.Excerpt(0)),
		)
	}
}

func TestKalmanFilterUpdate(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanFilterParams())

	mean := make(StateMean, 4)
	covariance := NewStateCov()

	kf.Initiate(mean, covariance, Measurement{0.5, 0.5})

	// position and measurement variance are equal so the gain is one half
	if err := kf.Update(mean, covariance, Measurement{0.6, 0.5}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	expectedMean := StateMean{0.55, 0.5, 0, 0}

	if !floatsEqual(mean, expectedMean, 1e-9) {
		t.Errorf("expected mean %v, got %v", expectedMean, mean)
	}

	if got := covariance.At(0, 0); got < 2e-4-1e-9 || got > 2e-4+1e-9 {
		t.Errorf("expected x variance 2e-4, got %g", got)
	}

	if got := covariance.At(2, 2); got < 2.5e-3-1e-9 || got > 2.5e-3+1e-9 {
		t.Errorf("expected unobserved velocity variance unchanged, got %g", got)
	}
}

func TestKalmanFilterVelocity(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanFilterParams())

	mean := make(StateMean, 4)
	covariance := NewStateCov()

	kf.Initiate(mean, covariance, Measurement{0.1, 0.5})

	for k := 1; k <= 40; k++ {
		kf.Predict(mean, covariance)

		if err := kf.Update(mean, covariance, Measurement{0.1 + 0.01*float64(k), 0.5}); err != nil {
			t.Fatalf("failed to update frame %d: %v", k, err)
		}
	}

	if diff := mean[2] - 0.01; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("expected x velocity near 0.01, got %f", mean[2])
	}

	if diff := mean[0] - 0.5; diff > 5e-3 || diff < -5e-3 {
		t.Errorf("expected x near 0.5, got %f", mean[0])
	}
}
