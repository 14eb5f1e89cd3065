package store

import (
	"context"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// Unavailable stands in for a configured database that could not be
// reached. Every call fails with core.ErrStorageUnavailable; it never
// falls back to memory.
type Unavailable struct{}

func (Unavailable) List(context.Context) ([]core.Business, error) {
	return nil, core.ErrStorageUnavailable
}

func (Unavailable) Get(context.Context, string) (core.Business, error) {
	return core.Business{}, core.ErrStorageUnavailable
}

func (Unavailable) Create(context.Context, core.BusinessInput) (core.Business, error) {
	return core.Business{}, core.ErrStorageUnavailable
}

func (Unavailable) Update(context.Context, string, core.BusinessPatch) (core.Business, error) {
	return core.Business{}, core.ErrStorageUnavailable
}

func (Unavailable) Delete(context.Context, string) error {
	return core.ErrStorageUnavailable
}

func (Unavailable) BulkCreate(context.Context, []core.BusinessInput) ([]core.Business, error) {
	return nil, core.ErrStorageUnavailable
}
