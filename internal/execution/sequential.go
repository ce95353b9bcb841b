package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"suiterun/internal/aggregate"
	"suiterun/internal/domain"
	"suiterun/internal/parser"
)

// Sequential runs units strictly one at a time, in discovery order. Units may share
// fixtures in the system under test, so no two children are ever in flight together.
type Sequential struct {
	executor   Executor
	classifier parser.Classifier
	logger     logrus.FieldLogger
	progress   Progress
}

// NewSequential creates a new Sequential orchestrator
func NewSequential(executor Executor, classifier parser.Classifier, logger logrus.FieldLogger) *Sequential {
	return &Sequential{
		executor:   executor,
		classifier: classifier,
		logger:     logger,
	}
}

// SetProgress sets the progress sink updated after every unit
func (s *Sequential) SetProgress(progress Progress) {
	s.progress = progress
}

// Execute runs every unit once and returns the aggregated summary. Once ctx is
// cancelled, remaining units are recorded as interrupted without being launched.
// The only errors returned are aggregation invariant violations.
func (s *Sequential) Execute(ctx context.Context, units []domain.TestUnit) (domain.ReportSummary, error) {
	agg := aggregate.New(units)
	var passed, failed int

	for i, unit := range units {
		var result domain.ExecutionResult
		if err := ctx.Err(); err != nil {
			result = interrupted(domain.ExecutionResult{Unit: unit, ExitCode: -1}, err)
		} else {
			result = s.executor.Run(ctx, unit)
		}
		result = s.classify(result)

		if err := agg.Add(result); err != nil {
			return domain.ReportSummary{}, fmt.Errorf("aggregate %s: %w", unit.Name, err)
		}

		if result.Passed() {
			passed++
		} else {
			failed++
		}
		s.log(i+1, len(units), result)
		if s.progress != nil {
			s.progress.Update(passed, failed)
		}
	}

	if s.progress != nil {
		s.progress.Finish()
	}
	return agg.Summary()
}

// classify completes a Fail result with a note from the unit's diagnostic text
func (s *Sequential) classify(result domain.ExecutionResult) domain.ExecutionResult {
	if result.Status != domain.StatusFail {
		return result
	}
	if strings.TrimSpace(result.Stderr) == "" {
		result.Note = fmt.Sprintf("exit status %d", result.ExitCode)
		return result
	}
	result.Note = s.classifier.Classify(result.Stderr)
	return result
}

func (s *Sequential) log(position, total int, result domain.ExecutionResult) {
	entry := s.logger.WithFields(logrus.Fields{
		"unit":     result.Unit.Name,
		"position": fmt.Sprintf("%d/%d", position, total),
		"status":   result.Status,
		"duration": result.Duration.Round(10 * time.Millisecond),
	})
	switch result.Status {
	case domain.StatusPass:
		entry.Info("Unit passed")
	case domain.StatusFail:
		entry.WithField("note", result.Note).Warn("Unit failed")
	default:
		entry.WithField("note", result.Note).WithError(result.Err).Warn("Unit errored")
	}
}
