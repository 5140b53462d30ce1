package uc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/ingest"
	"github.com/equipsight/equipsight/engine/dataset/model"
	"github.com/equipsight/equipsight/pkg/logger"
)

// UploadInput carries the CSV stream and the owning user.
type UploadInput struct {
	UserID   core.ID
	FileName string
	Data     io.Reader
}

// UploadOutput reports the stored dataset, its summary, and how many rows
// were dropped during parsing.
type UploadOutput struct {
	Dataset *model.Dataset `json:"dataset"`
	Summary *model.Summary `json:"summary"`
	Skipped int            `json:"skipped_rows"`
	Pruned  int            `json:"pruned_datasets"`
}

// Upload use case: parses a CSV file, persists the dataset with its rows in
// one transaction, and prunes the user's oldest datasets past the retention
// limit.
type Upload struct {
	factory *Factory
	input   *UploadInput
}

func (uc *Upload) Execute(ctx context.Context) (*UploadOutput, error) {
	log := logger.FromContext(ctx)
	result, err := ingest.Parse(uc.input.Data)
	if err != nil {
		return nil, err
	}
	datasetID, err := core.NewID()
	if err != nil {
		return nil, fmt.Errorf("generating dataset ID: %w", err)
	}
	dataset := &model.Dataset{
		ID:               datasetID,
		UserID:           uc.input.UserID,
		Name:             uc.input.FileName,
		UploadedAt:       time.Now().UTC(),
		TotalEquipment:   result.Summary.TotalEquipment,
		AvgFlowrate:      result.Summary.AvgFlowrate,
		AvgPressure:      result.Summary.AvgPressure,
		AvgTemperature:   result.Summary.AvgTemperature,
		TypeDistribution: result.Summary.TypeDistribution,
	}
	equipment := make([]*model.Equipment, len(result.Rows))
	for i, row := range result.Rows {
		id, err := core.NewID()
		if err != nil {
			return nil, fmt.Errorf("generating equipment ID: %w", err)
		}
		equipment[i] = &model.Equipment{
			ID:          id,
			DatasetID:   datasetID,
			Name:        row.Name,
			Type:        row.Type,
			Flowrate:    row.Flowrate,
			Pressure:    row.Pressure,
			Temperature: row.Temperature,
		}
	}
	pruned, err := uc.factory.repo.CreateDataset(ctx, dataset, equipment, uc.factory.cfg.KeepLast)
	if err != nil {
		return nil, fmt.Errorf("storing dataset: %w", err)
	}
	log.Info("Dataset uploaded",
		"dataset_id", dataset.ID,
		"user_id", dataset.UserID,
		"rows", len(equipment),
		"skipped", result.Skipped,
		"pruned", pruned,
	)
	return &UploadOutput{
		Dataset: dataset,
		Summary: result.Summary,
		Skipped: result.Skipped,
		Pruned:  pruned,
	}, nil
}
