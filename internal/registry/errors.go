// Package registry holds the per-period predictor pairs loaded at process
// start. A registry is either fully populated or empty; it is never
// mutated after construction.
package registry

import (
	"errors"
	"fmt"

	"github.com/iliyamo/smart-medicine-box/internal/model"
)

// LoadError reports which artifact could not be acquired.
type LoadError struct {
	Period model.TimePeriod
	Kind   Kind
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s model from %s: %v", e.Period, e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrUnknownPolicy is returned for a load policy other than degrade/fail.
var ErrUnknownPolicy = errors.New("unknown model load policy")
