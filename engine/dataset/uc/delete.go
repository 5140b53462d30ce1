package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/pkg/logger"
)

// DeleteInput identifies the dataset and the requesting user.
type DeleteInput struct {
	UserID    core.ID
	DatasetID core.ID
}

// DeleteOutput reports the removed dataset ID.
type DeleteOutput struct {
	DatasetID core.ID `json:"dataset_id"`
}

// Delete use case: removes a dataset and its equipment rows, per user.
type Delete struct {
	factory *Factory
	input   *DeleteInput
}

func (uc *Delete) Execute(ctx context.Context) (*DeleteOutput, error) {
	log := logger.FromContext(ctx)
	if err := uc.factory.repo.DeleteDataset(ctx, uc.input.UserID, uc.input.DatasetID); err != nil {
		if errors.Is(err, ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("deleting dataset: %w", err)
	}
	log.Info("Dataset deleted", "dataset_id", uc.input.DatasetID, "user_id", uc.input.UserID)
	return &DeleteOutput{DatasetID: uc.input.DatasetID}, nil
}
