package http

import (
	"context"
	"time"

	"funpass/entities"
	"funpass/pricing"
)

type Handler struct {
	editor PriceEditor
	board  PriceBoard
}

type PriceEditor interface {
	Load(ctx context.Context) (map[entities.PassType]string, error)
	UpdateField(passType entities.PassType, raw string) (pricing.ValidationResult, error)
	Commit(ctx context.Context) error
	Reset(ctx context.Context) error
	Fields() []pricing.StagedEdit
	Dirty() bool
	LastUpdated() time.Time
}

type PriceBoard interface {
	Prices() []entities.PriceEntry
	Quote(passType entities.PassType, quantity int) (entities.Price, error)
	RefreshedAt() time.Time
}
