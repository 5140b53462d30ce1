package uc

import (
	"context"
	"fmt"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
)

// HistoryInput identifies whose datasets to list.
type HistoryInput struct {
	UserID core.ID
}

// History use case: the user's retained datasets, newest first.
type History struct {
	factory *Factory
	input   *HistoryInput
}

func (uc *History) Execute(ctx context.Context) ([]*model.Dataset, error) {
	datasets, err := uc.factory.repo.ListDatasets(ctx, uc.input.UserID, uc.factory.cfg.KeepLast)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return datasets, nil
}
