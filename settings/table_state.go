package settings

import (
	"context"
	"encoding/json"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/pagedview"
)

// TableState is the saved state of one table.
type TableState struct {
	PageSize null.Int        `json:"page_size"`
	Sort     *pagedview.Sort `json:"sort,omitempty"`
	Hidden   []string        `json:"hidden,omitempty"`
}

// TableKey returns the settings key of the table with the given id.
func TableKey(id string) string {
	return "table:" + id
}

// LoadTable reads the saved state of a table. ok is false when nothing was
// saved yet.
func LoadTable(ctx context.Context, store Store, id string) (state TableState, ok bool, err error) {
	data, ok, err := store.Get(ctx, TableKey(id))
	if err != nil || !ok {
		return TableState{}, false, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return TableState{}, false, errors.Wrapf(err, "decode table state %q", id)
	}
	return state, true, nil
}

// SaveTable writes the state of a table.
func SaveTable(ctx context.Context, store Store, id string, state TableState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrapf(err, "encode table state %q", id)
	}
	return store.Put(ctx, TableKey(id), data)
}
