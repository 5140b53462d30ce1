package model

import (
	"time"

	"github.com/equipsight/equipsight/engine/core"
)

// Dataset is one uploaded CSV file with its precomputed summary.
type Dataset struct {
	ID               core.ID        `db:"id"                json:"id"`
	UserID           core.ID        `db:"user_id"           json:"user_id"`
	Name             string         `db:"name"              json:"name"`
	UploadedAt       time.Time      `db:"uploaded_at"       json:"uploaded_at"`
	TotalEquipment   int            `db:"total_equipment"   json:"total_equipment"`
	AvgFlowrate      float64        `db:"avg_flowrate"      json:"avg_flowrate"`
	AvgPressure      float64        `db:"avg_pressure"      json:"avg_pressure"`
	AvgTemperature   float64        `db:"avg_temperature"   json:"avg_temperature"`
	TypeDistribution map[string]int `db:"type_distribution" json:"type_distribution"`
}

// Equipment is one reading row from an uploaded CSV.
type Equipment struct {
	ID          core.ID `db:"id"             json:"id"`
	DatasetID   core.ID `db:"dataset_id"     json:"dataset_id"`
	Name        string  `db:"name"           json:"name"`
	Type        string  `db:"equipment_type" json:"type"`
	Flowrate    float64 `db:"flowrate"       json:"flowrate"`
	Pressure    float64 `db:"pressure"       json:"pressure"`
	Temperature float64 `db:"temperature"    json:"temperature"`
}

// Summary is the stats block returned by the upload and detail endpoints.
type Summary struct {
	TotalEquipment   int            `json:"total_equipment"`
	AvgFlowrate      float64        `json:"avg_flowrate"`
	AvgPressure      float64        `json:"avg_pressure"`
	AvgTemperature   float64        `json:"avg_temperature"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// Summary returns the dataset's stats block.
func (d *Dataset) Summary() *Summary {
	return &Summary{
		TotalEquipment:   d.TotalEquipment,
		AvgFlowrate:      d.AvgFlowrate,
		AvgPressure:      d.AvgPressure,
		AvgTemperature:   d.AvgTemperature,
		TypeDistribution: d.TypeDistribution,
	}
}
