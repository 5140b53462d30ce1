package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
	"github.com/equipsight/equipsight/engine/dataset/uc"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var datasetColumns = []string{
	"id", "user_id", "name", "uploaded_at",
	"total_equipment", "avg_flowrate", "avg_pressure", "avg_temperature",
	"type_distribution",
}

var equipmentColumns = []string{
	"id", "dataset_id", "name", "equipment_type",
	"flowrate", "pressure", "temperature",
}

// Repository implements the dataset repository interface using PostgreSQL.
type Repository struct {
	db DBInterface
}

// DBInterface defines the minimal interface needed by the repository.
type DBInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewRepository creates a new dataset repository.
func NewRepository(db DBInterface) uc.Repository {
	return &Repository{db: db}
}

// CreateDataset inserts the dataset with its equipment rows and prunes the
// user's oldest datasets past keep, all in one transaction.
func (r *Repository) CreateDataset(
	ctx context.Context,
	dataset *model.Dataset,
	equipment []*model.Equipment,
	keep int,
) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := insertDataset(ctx, tx, dataset); err != nil {
		return 0, err
	}
	if err := insertEquipment(ctx, tx, equipment); err != nil {
		return 0, err
	}
	pruned, err := pruneDatasets(ctx, tx, dataset.UserID, keep)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return pruned, nil
}

func insertDataset(ctx context.Context, tx pgx.Tx, dataset *model.Dataset) error {
	query, args, err := squirrel.Insert("datasets").
		Columns(datasetColumns...).
		Values(
			dataset.ID, dataset.UserID, dataset.Name, dataset.UploadedAt,
			dataset.TotalEquipment, dataset.AvgFlowrate, dataset.AvgPressure, dataset.AvgTemperature,
			dataset.TypeDistribution,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting dataset: %w", err)
	}
	return nil
}

func insertEquipment(ctx context.Context, tx pgx.Tx, equipment []*model.Equipment) error {
	if len(equipment) == 0 {
		return nil
	}
	builder := squirrel.Insert("equipment").
		Columns(equipmentColumns...).
		PlaceholderFormat(squirrel.Dollar)
	for _, eq := range equipment {
		builder = builder.Values(
			eq.ID, eq.DatasetID, eq.Name, eq.Type,
			eq.Flowrate, eq.Pressure, eq.Temperature,
		)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting equipment rows: %w", err)
	}
	return nil
}

// pruneDatasets deletes the user's datasets beyond the keep newest. Equipment
// rows go with them via FK cascade.
func pruneDatasets(ctx context.Context, tx pgx.Tx, userID core.ID, keep int) (int, error) {
	query := `DELETE FROM datasets
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM datasets WHERE user_id = $1
			ORDER BY uploaded_at DESC LIMIT $2
		)`
	tag, err := tx.Exec(ctx, query, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning datasets: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListDatasets returns the user's datasets, newest first, up to limit.
func (r *Repository) ListDatasets(ctx context.Context, userID core.ID, limit int) ([]*model.Dataset, error) {
	query, args, err := squirrel.Select(datasetColumns...).
		From("datasets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("uploaded_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	datasets := []*model.Dataset{}
	if err := pgxscan.Select(ctx, r.db, &datasets, query, args...); err != nil {
		return nil, fmt.Errorf("scanning datasets: %w", err)
	}
	return datasets, nil
}

// GetDataset returns the user's dataset by ID.
func (r *Repository) GetDataset(ctx context.Context, userID, id core.ID) (*model.Dataset, error) {
	query, args, err := squirrel.Select(datasetColumns...).
		From("datasets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var dataset model.Dataset
	if err := pgxscan.Get(ctx, r.db, &dataset, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	return &dataset, nil
}

// GetLatestDataset returns the user's most recent dataset.
func (r *Repository) GetLatestDataset(ctx context.Context, userID core.ID) (*model.Dataset, error) {
	query, args, err := squirrel.Select(datasetColumns...).
		From("datasets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("uploaded_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var dataset model.Dataset
	if err := pgxscan.Get(ctx, r.db, &dataset, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	return &dataset, nil
}

// ListEquipment returns a dataset's equipment rows in insertion order.
func (r *Repository) ListEquipment(ctx context.Context, datasetID core.ID) ([]*model.Equipment, error) {
	query, args, err := squirrel.Select(equipmentColumns...).
		From("equipment").
		Where(squirrel.Eq{"dataset_id": datasetID}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	equipment := []*model.Equipment{}
	if err := pgxscan.Select(ctx, r.db, &equipment, query, args...); err != nil {
		return nil, fmt.Errorf("scanning equipment rows: %w", err)
	}
	return equipment, nil
}

// DeleteDataset removes the user's dataset; equipment rows cascade.
func (r *Repository) DeleteDataset(ctx context.Context, userID, id core.ID) error {
	query, args, err := squirrel.Delete("datasets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrDatasetNotFound
	}
	return nil
}
