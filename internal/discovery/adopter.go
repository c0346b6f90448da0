package discovery

import (
	"context"

	"stackhand/internal/db"
	"stackhand/internal/errors"
	"stackhand/internal/logger"
	"stackhand/internal/types"
	"stackhand/internal/validation"
)

// StackWriter persists an adopted stack
type StackWriter interface {
	AdoptStack(ctx context.Context, stack *db.Stack) error
}

// Adopter commits selected candidates into the inventory. It does no
// filesystem work.
type Adopter struct {
	writer StackWriter
}

// NewAdopter creates an Adopter writing to writer
func NewAdopter(writer StackWriter) *Adopter {
	return &Adopter{writer: writer}
}

// Adopt persists every stack independently under envID. A failure on one
// stack does not stop the rest.
func (a *Adopter) Adopt(ctx context.Context, stacks []StackCandidate, envID int64) AdoptResult {
	var batch types.Batch[string]

	for _, s := range stacks {
		if s.Name == "" || s.ComposePath == "" {
			batch.Fail(s.Name, errors.InvalidInput(s.Name, "name and composePath").Error())
			continue
		}
		if err := validation.StackName(s.Name); err != nil {
			batch.Fail(s.Name, err.Error())
			continue
		}

		record := &db.Stack{
			Name:          s.Name,
			EnvironmentID: &envID,
			ComposePath:   s.ComposePath,
		}
		if s.EnvPath != "" {
			envPath := s.EnvPath
			record.EnvPath = &envPath
		}

		if err := a.writer.AdoptStack(ctx, record); err != nil {
			failure := errors.PersistenceFailure(s.Name, err)
			logger.WithFields(logger.Fields{"stack": s.Name, "environment": envID}).
				WithError(err).Warn("Failed to adopt stack")
			batch.Fail(s.Name, failure.Error()+": "+err.Error())
			continue
		}

		logger.WithFields(logger.Fields{"stack": s.Name, "environment": envID, "compose": s.ComposePath}).
			Info("Adopted stack")
		batch.Succeed(s.Name)
	}

	if batch.HasFailures() {
		failed, _ := batch.FailedItems()
		logger.WithFields(logger.Fields{"environment": envID, "total": batch.Len(), "failed": failed}).
			Warn("Some stacks were not adopted")
	}

	result := AdoptResult{Adopted: batch.Succeeded(), Failed: []AdoptFailure{}}
	for _, f := range batch.Failed() {
		result.Failed = append(result.Failed, AdoptFailure{Name: f.Item, Reason: f.Reason})
	}
	return result
}
