package execution

import (
	"context"

	"suiterun/internal/domain"
)

// Executor runs one test unit in isolation and always returns exactly one result.
// Unit failures, timeouts and launch problems are reported in the result, never as errors.
type Executor interface {
	Run(ctx context.Context, unit domain.TestUnit) domain.ExecutionResult
}

// Progress receives running pass/fail counts while units complete
type Progress interface {
	Update(passed, failed int)
	Finish()
}
