// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/world"
)

// regionColumns selects a region row with its owner set aggregated into a
// text array.
const regionColumns = `
	SELECT r.id, r.priority,
	       r.min_x, r.min_y, r.min_z, r.max_x, r.max_y, r.max_z,
	       r.buyable, r.price, r.type, r.buy_permission,
	       COALESCE(array_agg(o.player_id) FILTER (WHERE o.player_id IS NOT NULL), '{}')
	FROM regions r
	LEFT JOIN region_owners o ON o.region_id = r.id`

// PostgresRegionRepository implements region.Registry using PostgreSQL.
type PostgresRegionRepository struct {
	pool poolIface
}

// NewPostgresRegionRepository creates a PostgreSQL region repository.
func NewPostgresRegionRepository(pool poolIface) *PostgresRegionRepository {
	return &PostgresRegionRepository{pool: pool}
}

// Get implements region.Registry.
func (r *PostgresRegionRepository) Get(ctx context.Context, id string) (*region.Region, error) {
	rows, err := r.pool.Query(ctx, regionColumns+` WHERE r.id = $1 GROUP BY r.id`, id)
	if err != nil {
		return nil, oops.With("operation", "get region").With("region", id).Wrap(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, oops.With("operation", "get region").With("region", id).Wrap(err)
		}
		return nil, oops.Code("REGION_NOT_FOUND").With("region", id).Wrap(region.ErrNotFound)
	}
	reg, err := scanRegion(rows)
	if err != nil {
		return nil, oops.With("operation", "get region").With("region", id).Wrap(err)
	}
	return reg, nil
}

// FindContaining implements region.Registry. Results are ordered by
// priority descending, ties broken by ID.
func (r *PostgresRegionRepository) FindContaining(ctx context.Context, p world.Point) ([]*region.Region, error) {
	rows, err := r.pool.Query(ctx, regionColumns+`
	WHERE $1 BETWEEN r.min_x AND r.max_x
	  AND $2 BETWEEN r.min_y AND r.max_y
	  AND $3 BETWEEN r.min_z AND r.max_z
	GROUP BY r.id
	ORDER BY r.priority DESC, r.id`, p.X, p.Y, p.Z)
	if err != nil {
		return nil, oops.With("operation", "find containing regions").Wrap(err)
	}
	defer rows.Close()

	var found []*region.Region
	for rows.Next() {
		reg, err := scanRegion(rows)
		if err != nil {
			return nil, oops.With("operation", "find containing regions").Wrap(err)
		}
		found = append(found, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "find containing regions").Wrap(err)
	}
	return found, nil
}

// ForEach implements region.Registry. Regions are visited in ID order.
func (r *PostgresRegionRepository) ForEach(ctx context.Context, fn func(*region.Region) bool) error {
	rows, err := r.pool.Query(ctx, regionColumns+` GROUP BY r.id ORDER BY r.id`)
	if err != nil {
		return oops.With("operation", "iterate regions").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		reg, err := scanRegion(rows)
		if err != nil {
			return oops.With("operation", "iterate regions").Wrap(err)
		}
		if !fn(reg) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return oops.With("operation", "iterate regions").Wrap(err)
	}
	return nil
}

// Save implements region.Registry. The region row and its owner set are
// written in one transaction.
func (r *PostgresRegionRepository) Save(ctx context.Context, reg *region.Region) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "save region").With("region", reg.ID).Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx,
		`INSERT INTO regions (id, priority, min_x, min_y, min_z, max_x, max_y, max_z,
		                      buyable, price, type, buy_permission)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   priority = $2, min_x = $3, min_y = $4, min_z = $5,
		   max_x = $6, max_y = $7, max_z = $8,
		   buyable = $9, price = $10, type = $11, buy_permission = $12`,
		reg.ID, reg.Priority,
		reg.Bounds.Min.X, reg.Bounds.Min.Y, reg.Bounds.Min.Z,
		reg.Bounds.Max.X, reg.Bounds.Max.Y, reg.Bounds.Max.Z,
		reg.Buyable, reg.Price, reg.Type, reg.BuyPermission)
	if err != nil {
		return oops.With("operation", "upsert region").With("region", reg.ID).Wrap(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM region_owners WHERE region_id = $1`, reg.ID); err != nil {
		return oops.With("operation", "clear region owners").With("region", reg.ID).Wrap(err)
	}
	for _, owner := range reg.Owners() {
		_, err := tx.Exec(ctx,
			`INSERT INTO region_owners (region_id, player_id) VALUES ($1, $2)`,
			reg.ID, owner.String())
		if err != nil {
			return oops.With("operation", "insert region owner").
				With("region", reg.ID).
				With("owner", owner.String()).
				Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "save region").With("region", reg.ID).Wrap(err)
	}
	return nil
}

// scanRegion builds a region from a row selected with regionColumns.
func scanRegion(rows pgx.Rows) (*region.Region, error) {
	var (
		id                 string
		priority           int
		minX, minY, minZ   int
		maxX, maxY, maxZ   int
		buyable            bool
		price              *float64
		typ, buyPermission *string
		owners             []string
	)
	err := rows.Scan(&id, &priority,
		&minX, &minY, &minZ, &maxX, &maxY, &maxZ,
		&buyable, &price, &typ, &buyPermission, &owners)
	if err != nil {
		return nil, oops.Wrapf(err, "scan region row")
	}

	reg := region.New(id, world.Bounds{
		Min: world.Point{X: minX, Y: minY, Z: minZ},
		Max: world.Point{X: maxX, Y: maxY, Z: maxZ},
	})
	reg.Priority = priority
	reg.Buyable = buyable
	reg.Price = price
	reg.Type = typ
	reg.BuyPermission = buyPermission

	for _, raw := range owners {
		owner, err := ulid.Parse(raw)
		if err != nil {
			return nil, oops.With("region", id).With("owner", raw).
				Wrapf(err, "corrupt owner id in database")
		}
		reg.AddOwner(owner)
	}
	return reg, nil
}

// errIsNoRows reports a pgx no-rows result.
func errIsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
