package uc

import (
	"context"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
)

// Repository defines the persistence operations needed by the dataset use
// cases.
type Repository interface {
	// CreateDataset inserts a dataset with its equipment rows and prunes the
	// user's oldest datasets past keep, all in one transaction. Returns the
	// number of datasets pruned.
	CreateDataset(ctx context.Context, dataset *model.Dataset, equipment []*model.Equipment, keep int) (int, error)
	// ListDatasets returns the user's datasets, newest first, up to limit.
	ListDatasets(ctx context.Context, userID core.ID, limit int) ([]*model.Dataset, error)
	// GetDataset returns the user's dataset by ID, or ErrDatasetNotFound.
	GetDataset(ctx context.Context, userID, id core.ID) (*model.Dataset, error)
	// GetLatestDataset returns the user's most recent dataset, or
	// ErrDatasetNotFound.
	GetLatestDataset(ctx context.Context, userID core.ID) (*model.Dataset, error)
	// ListEquipment returns a dataset's equipment rows in insertion order.
	ListEquipment(ctx context.Context, datasetID core.ID) ([]*model.Equipment, error)
	// DeleteDataset removes the user's dataset, or ErrDatasetNotFound.
	DeleteDataset(ctx context.Context, userID, id core.ID) error
}
