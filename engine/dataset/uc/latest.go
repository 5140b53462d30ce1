package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
)

// LatestInput identifies whose latest dataset to load.
type LatestInput struct {
	UserID core.ID
}

// Latest use case: the user's most recent dataset summary.
type Latest struct {
	factory *Factory
	input   *LatestInput
}

func (uc *Latest) Execute(ctx context.Context) (*model.Dataset, error) {
	dataset, err := uc.factory.repo.GetLatestDataset(ctx, uc.input.UserID)
	if err != nil {
		if errors.Is(err, ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("loading latest dataset: %w", err)
	}
	return dataset, nil
}
