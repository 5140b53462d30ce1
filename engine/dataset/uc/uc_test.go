package uc

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/ingest"
	"github.com/equipsight/equipsight/engine/dataset/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	datasets  []*model.Dataset
	equipment map[core.ID][]*model.Equipment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{equipment: make(map[core.ID][]*model.Equipment)}
}

func (r *fakeRepo) CreateDataset(
	_ context.Context,
	dataset *model.Dataset,
	equipment []*model.Equipment,
	keep int,
) (int, error) {
	r.datasets = append(r.datasets, dataset)
	r.equipment[dataset.ID] = equipment
	var mine []*model.Dataset
	for _, d := range r.datasets {
		if d.UserID == dataset.UserID {
			mine = append(mine, d)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].UploadedAt.After(mine[j].UploadedAt) })
	pruned := 0
	if len(mine) > keep {
		for _, d := range mine[keep:] {
			r.remove(d.ID)
			pruned++
		}
	}
	return pruned, nil
}

func (r *fakeRepo) remove(id core.ID) {
	for i, d := range r.datasets {
		if d.ID == id {
			r.datasets = append(r.datasets[:i], r.datasets[i+1:]...)
			break
		}
	}
	delete(r.equipment, id)
}

func (r *fakeRepo) ListDatasets(_ context.Context, userID core.ID, limit int) ([]*model.Dataset, error) {
	var mine []*model.Dataset
	for _, d := range r.datasets {
		if d.UserID == userID {
			mine = append(mine, d)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].UploadedAt.After(mine[j].UploadedAt) })
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func (r *fakeRepo) GetDataset(_ context.Context, userID, id core.ID) (*model.Dataset, error) {
	for _, d := range r.datasets {
		if d.ID == id && d.UserID == userID {
			return d, nil
		}
	}
	return nil, ErrDatasetNotFound
}

func (r *fakeRepo) GetLatestDataset(ctx context.Context, userID core.ID) (*model.Dataset, error) {
	mine, err := r.ListDatasets(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(mine) == 0 {
		return nil, ErrDatasetNotFound
	}
	return mine[0], nil
}

func (r *fakeRepo) ListEquipment(_ context.Context, datasetID core.ID) ([]*model.Equipment, error) {
	return r.equipment[datasetID], nil
}

func (r *fakeRepo) DeleteDataset(_ context.Context, userID, id core.ID) error {
	for _, d := range r.datasets {
		if d.ID == id && d.UserID == userID {
			r.remove(id)
			return nil
		}
	}
	return ErrDatasetNotFound
}

const validCSV = `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump A,Pump,120.5,8.2,65.0
Pump B,Pump,110.0,7.8,70.0
Reactor 1,Reactor,45.5,15.0,250.0
`

func upload(t *testing.T, factory *Factory, userID core.ID, name, data string) *UploadOutput {
	t.Helper()
	out, err := factory.Upload(&UploadInput{
		UserID:   userID,
		FileName: name,
		Data:     strings.NewReader(data),
	}).Execute(context.Background())
	require.NoError(t, err)
	return out
}

func TestUpload(t *testing.T) {
	t.Run("Should persist the dataset with computed stats", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		userID := core.MustNewID()
		out := upload(t, factory, userID, "plant.csv", validCSV)
		assert.Equal(t, "plant.csv", out.Dataset.Name)
		assert.Equal(t, userID, out.Dataset.UserID)
		assert.Equal(t, 3, out.Dataset.TotalEquipment)
		assert.InDelta(t, 92.0, out.Dataset.AvgFlowrate, 0.001)
		assert.Equal(t, map[string]int{"Pump": 2, "Reactor": 1}, out.Dataset.TypeDistribution)
		assert.Len(t, repo.equipment[out.Dataset.ID], 3)
	})
	t.Run("Should report skipped rows", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		data := validCSV + "Bad Row,Pump,not-a-number,1.0,1.0\n"
		out := upload(t, factory, core.MustNewID(), "plant.csv", data)
		assert.Equal(t, 1, out.Skipped)
		assert.Equal(t, 3, out.Dataset.TotalEquipment)
	})
	t.Run("Should surface parse errors", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		_, err := factory.Upload(&UploadInput{
			UserID:   core.MustNewID(),
			FileName: "empty.csv",
			Data:     strings.NewReader(""),
		}).Execute(context.Background())
		assert.ErrorIs(t, err, ingest.ErrEmptyFile)
		assert.Empty(t, repo.datasets)
	})
	t.Run("Should prune past the retention limit", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, &Config{KeepLast: 2})
		userID := core.MustNewID()
		upload(t, factory, userID, "one.csv", validCSV)
		upload(t, factory, userID, "two.csv", validCSV)
		out := upload(t, factory, userID, "three.csv", validCSV)
		assert.Equal(t, 1, out.Pruned)
		assert.Len(t, repo.datasets, 2)
	})
}

func TestHistory(t *testing.T) {
	t.Run("Should list only the user's datasets, newest first", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		alice := core.MustNewID()
		bob := core.MustNewID()
		upload(t, factory, alice, "a1.csv", validCSV)
		upload(t, factory, bob, "b1.csv", validCSV)
		upload(t, factory, alice, "a2.csv", validCSV)

		datasets, err := factory.History(&HistoryInput{UserID: alice}).Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, datasets, 2)
		assert.Equal(t, "a2.csv", datasets[0].Name)
		assert.Equal(t, "a1.csv", datasets[1].Name)
	})
}

func TestGet(t *testing.T) {
	t.Run("Should return the dataset with its equipment rows", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		userID := core.MustNewID()
		uploaded := upload(t, factory, userID, "plant.csv", validCSV)

		out, err := factory.Get(&GetInput{
			UserID:    userID,
			DatasetID: uploaded.Dataset.ID,
		}).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uploaded.Dataset.ID, out.Dataset.ID)
		assert.Len(t, out.Equipment, 3)
	})
	t.Run("Should hide other users' datasets", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		uploaded := upload(t, factory, core.MustNewID(), "plant.csv", validCSV)

		_, err := factory.Get(&GetInput{
			UserID:    core.MustNewID(),
			DatasetID: uploaded.Dataset.ID,
		}).Execute(context.Background())
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Should delete the user's dataset", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		userID := core.MustNewID()
		uploaded := upload(t, factory, userID, "plant.csv", validCSV)

		out, err := factory.Delete(&DeleteInput{
			UserID:    userID,
			DatasetID: uploaded.Dataset.ID,
		}).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uploaded.Dataset.ID, out.DatasetID)
		assert.Empty(t, repo.datasets)
	})
	t.Run("Should return not found for other users' datasets", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		uploaded := upload(t, factory, core.MustNewID(), "plant.csv", validCSV)

		_, err := factory.Delete(&DeleteInput{
			UserID:    core.MustNewID(),
			DatasetID: uploaded.Dataset.ID,
		}).Execute(context.Background())
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})
}

func TestLatest(t *testing.T) {
	t.Run("Should return the most recent dataset", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		userID := core.MustNewID()
		upload(t, factory, userID, "old.csv", validCSV)
		latest := upload(t, factory, userID, "new.csv", validCSV)

		out, err := factory.Latest(&LatestInput{UserID: userID}).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, latest.Dataset.ID, out.ID)
	})
	t.Run("Should return not found when the user has no datasets", func(t *testing.T) {
		repo := newFakeRepo()
		factory := NewFactory(repo, nil)
		_, err := factory.Latest(&LatestInput{UserID: core.MustNewID()}).Execute(context.Background())
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})
}
