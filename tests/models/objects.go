// Package models holds a hand-written model in the shape SQLBoiler
// generates, used by the integration tests.
package models

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

var dialect = drivers.Dialect{
	LQ: '"',
	RQ: '"',

	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// Object is an object representing the database table.
type Object struct {
	PublicID  int64       `boil:"public_id" json:"public_id"`
	TypeID    int         `boil:"type_id" json:"type_id"`
	Hostname  null.String `boil:"hostname" json:"hostname"`
	Serial    null.String `boil:"serial" json:"serial"`
	Active    bool        `boil:"active" json:"active"`
	AuthorID  string      `boil:"author_id" json:"author_id"`
	CreatedAt time.Time   `boil:"created_at" json:"created_at"`
}

// ObjectSlice is an alias for a slice of pointers to Object.
type ObjectSlice []*Object

type objectQuery struct {
	*queries.Query
}

// NewQuery initializes a new Query using the passed in QueryMods.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// Objects returns a new query against the objects table.
func Objects(mods ...qm.QueryMod) objectQuery {
	mods = append(mods, qm.From(`"objects"`))
	q := NewQuery(mods...)
	queries.SetSelect(q, []string{`"objects".*`})
	return objectQuery{q}
}

// All returns all Object records from the query.
func (q objectQuery) All(ctx context.Context, exec boil.ContextExecutor) (ObjectSlice, error) {
	var o []*Object
	if err := q.Bind(ctx, exec, &o); err != nil {
		return nil, err
	}
	return o, nil
}

// Count returns the count of all Object records in the query.
func (q objectQuery) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	return count, err
}
