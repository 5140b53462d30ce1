package uc

import (
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/model"
)

var (
	_ core.Usecase[*UploadOutput]    = (*Upload)(nil)
	_ core.Usecase[[]*model.Dataset] = (*History)(nil)
	_ core.Usecase[*GetOutput]       = (*Get)(nil)
	_ core.Usecase[*DeleteOutput]    = (*Delete)(nil)
	_ core.Usecase[*model.Dataset]   = (*Latest)(nil)
)

// Config carries the dataset policy knobs shared across use cases.
type Config struct {
	// KeepLast is how many datasets are retained per user; older ones are
	// pruned on upload.
	KeepLast int
}

// DefaultConfig returns the default dataset policy.
func DefaultConfig() *Config {
	return &Config{KeepLast: 5}
}

// Factory builds dataset use cases with shared dependencies.
type Factory struct {
	repo Repository
	cfg  *Config
}

// NewFactory creates a use case factory.
func NewFactory(repo Repository, cfg *Config) *Factory {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Factory{repo: repo, cfg: cfg}
}

func (f *Factory) Upload(input *UploadInput) *Upload {
	return &Upload{factory: f, input: input}
}

func (f *Factory) History(input *HistoryInput) *History {
	return &History{factory: f, input: input}
}

func (f *Factory) Get(input *GetInput) *Get {
	return &Get{factory: f, input: input}
}

func (f *Factory) Delete(input *DeleteInput) *Delete {
	return &Delete{factory: f, input: input}
}

func (f *Factory) Latest(input *LatestInput) *Latest {
	return &Latest{factory: f, input: input}
}
