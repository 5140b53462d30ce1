package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
)

// GetInput identifies the dataset and the requesting user.
type GetInput struct {
	UserID    core.ID
	DatasetID core.ID
}

// GetOutput bundles a dataset with its equipment rows.
type GetOutput struct {
	Dataset   *model.Dataset     `json:"dataset"`
	Equipment []*model.Equipment `json:"equipment"`
}

// Get use case: one dataset including equipment rows, filtered per user.
type Get struct {
	factory *Factory
	input   *GetInput
}

func (uc *Get) Execute(ctx context.Context) (*GetOutput, error) {
	dataset, err := uc.factory.repo.GetDataset(ctx, uc.input.UserID, uc.input.DatasetID)
	if err != nil {
		if errors.Is(err, ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	equipment, err := uc.factory.repo.ListEquipment(ctx, dataset.ID)
	if err != nil {
		return nil, fmt.Errorf("loading equipment rows: %w", err)
	}
	return &GetOutput{Dataset: dataset, Equipment: equipment}, nil
}
