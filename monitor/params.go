package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/swdee/go-posture"
)

// Params configures the monitor loop
type Params struct {
	// Thresholds are the classifier visibility and slouch thresholds
	Thresholds posture.Thresholds
	// AlertDelay is how long slouching must continue before the alert
	AlertDelay time.Duration
	// QuitKey is the key code that stops the loop
	QuitKey int
	// EmptyFrameLogInterval limits how often skipped empty frames are logged
	EmptyFrameLogInterval time.Duration
}

// DefaultParams returns the default monitor configuration
func DefaultParams() Params {
	return Params{
		Thresholds:            posture.DefaultThresholds(),
		AlertDelay:            posture.DefaultAlertDelay,
		QuitKey:               'q',
		EmptyFrameLogInterval: time.Second,
	}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {

	var errs []error

	if p.Thresholds.Slouch <= 0 {
		errs = append(errs, fmt.Errorf("slouch threshold must be positive, got %v",
			p.Thresholds.Slouch))
	}

	if p.Thresholds.Visibility < 0 || p.Thresholds.Visibility >= 1 {
		errs = append(errs, fmt.Errorf("visibility threshold must be in [0, 1), got %v",
			p.Thresholds.Visibility))
	}

	if p.AlertDelay <= 0 {
		errs = append(errs, fmt.Errorf("alert delay must be positive, got %v",
			p.AlertDelay))
	}

	if p.EmptyFrameLogInterval <= 0 {
		errs = append(errs, fmt.Errorf("empty frame log interval must be positive, got %v",
			p.EmptyFrameLogInterval))
	}

	return errors.Join(errs...)
}
