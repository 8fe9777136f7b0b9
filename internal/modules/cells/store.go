// README: Cell membership and counter store backed by Redis pipelines.
package cells

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"honeycomb/internal/hex"
	"honeycomb/internal/types"
)

type Store struct {
	redis *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Current returns the driver's tracked cell and category, if any.
func (s *Store) Current(ctx context.Context, driverID types.ID) (hex.CellID, string, bool, error) {
	vals, err := s.redis.HGetAll(ctx, driverCurrentKey(driverID)).Result()
	if err != nil {
		return "", "", false, eris.Wrap(err, "cells: read current cell")
	}
	cell, ok := vals["cell"]
	if !ok || cell == "" {
		return "", "", false, nil
	}
	return hex.CellID(cell), vals["category"], true, nil
}

// Move is one driver's atomic transition between cells. From is empty when
// the driver was not tracked before.
type Move struct {
	DriverID     types.ID
	ZoneID       string
	From         hex.CellID
	FromCategory string
	To           hex.CellID
	Category     string
}

// ApplyMove executes the whole membership + counter transition as a single
// pipeline so the driver is never observable in two cells (or none) across
// a partially applied batch.
func (s *Store) ApplyMove(ctx context.Context, m Move) error {
	pipe := s.redis.TxPipeline()

	if m.From != "" {
		oldKey := cellDriversKey(m.ZoneID, m.From)
		pipe.SRem(ctx, oldKey, string(m.DriverID))

		oldSupply := cellSupplyKey(m.ZoneID, m.From)
		pipe.HIncrBy(ctx, oldSupply, totalField, -1)
		pipe.HIncrBy(ctx, oldSupply, m.FromCategory, -1)
	}

	newKey := cellDriversKey(m.ZoneID, m.To)
	pipe.SAdd(ctx, newKey, string(m.DriverID))
	pipe.Expire(ctx, newKey, counterTTL)

	newSupply := cellSupplyKey(m.ZoneID, m.To)
	pipe.HIncrBy(ctx, newSupply, totalField, 1)
	pipe.HIncrBy(ctx, newSupply, m.Category, 1)
	pipe.Expire(ctx, newSupply, counterTTL)

	pipe.HSet(ctx, driverCurrentKey(m.DriverID), "cell", string(m.To), "category", m.Category)
	pipe.Expire(ctx, driverCurrentKey(m.DriverID), currentCellTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrap(err, "cells: move pipeline")
	}
	return nil
}

// Refresh extends the TTLs for a driver that pinged from inside its current
// cell; no counters change.
func (s *Store) Refresh(ctx context.Context, driverID types.ID, zoneID string, cell hex.CellID) error {
	pipe := s.redis.Pipeline()
	pipe.Expire(ctx, driverCurrentKey(driverID), currentCellTTL)
	pipe.Expire(ctx, cellDriversKey(zoneID, cell), counterTTL)
	pipe.Expire(ctx, cellSupplyKey(zoneID, cell), counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrap(err, "cells: refresh ttl")
	}
	return nil
}

// Remove takes a driver out of its cell and decrements supply, in one batch.
func (s *Store) Remove(ctx context.Context, driverID types.ID, zoneID string, cell hex.CellID, category string) error {
	pipe := s.redis.TxPipeline()
	pipe.SRem(ctx, cellDriversKey(zoneID, cell), string(driverID))
	supply := cellSupplyKey(zoneID, cell)
	pipe.HIncrBy(ctx, supply, totalField, -1)
	pipe.HIncrBy(ctx, supply, category, -1)
	pipe.Del(ctx, driverCurrentKey(driverID))
	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrap(err, "cells: remove pipeline")
	}
	return nil
}

// IncrDemand bumps a cell's demand counters for the given window bucket.
// The TTL outlives the window so a closed bucket stays queryable briefly.
func (s *Store) IncrDemand(ctx context.Context, zoneID string, cell hex.CellID, window int64, category string) error {
	key := cellDemandKey(zoneID, cell, window)
	pipe := s.redis.TxPipeline()
	pipe.HIncrBy(ctx, key, totalField, 1)
	pipe.HIncrBy(ctx, key, category, 1)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrap(err, "cells: demand pipeline")
	}
	return nil
}

// Members fetches the driver membership sets for many cells in one batched
// read. Result is positionally aligned with the input cells.
func (s *Store) Members(ctx context.Context, zoneID string, cellIDs []hex.CellID) ([][]types.ID, error) {
	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(cellIDs))
	for i, cell := range cellIDs {
		cmds[i] = pipe.SMembers(ctx, cellDriversKey(zoneID, cell))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, eris.Wrap(err, "cells: members pipeline")
	}

	out := make([][]types.ID, len(cellIDs))
	for i, cmd := range cmds {
		members, err := cmd.Result()
		if err != nil && err != redis.Nil {
			return nil, eris.Wrap(err, "cells: members read")
		}
		ids := make([]types.ID, len(members))
		for j, m := range members {
			ids[j] = types.ID(m)
		}
		out[i] = ids
	}
	return out, nil
}

// Counters reads one cell's supply and windowed demand hashes.
func (s *Store) Counters(ctx context.Context, zoneID string, cell hex.CellID, window int64) (Counters, error) {
	pipe := s.redis.Pipeline()
	supplyCmd := pipe.HGetAll(ctx, cellSupplyKey(zoneID, cell))
	demandCmd := pipe.HGetAll(ctx, cellDemandKey(zoneID, cell, window))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Counters{}, eris.Wrap(err, "cells: counters read")
	}

	supply := supplyCmd.Val()
	demand := demandCmd.Val()
	c := Counters{
		Supply:           hashInt(supply, totalField),
		Demand:           hashInt(demand, totalField),
		SupplyByCategory: make(map[string]int, len(types.Categories)),
		DemandByCategory: make(map[string]int, len(types.Categories)),
	}
	for _, cat := range types.Categories {
		c.SupplyByCategory[cat] = hashInt(supply, cat)
		c.DemandByCategory[cat] = hashInt(demand, cat)
	}
	return c, nil
}

// SupplyCells walks the supply keyspace for a zone and returns every cell
// that currently has stored counters.
func (s *Store) SupplyCells(ctx context.Context, zoneID string) ([]hex.CellID, error) {
	prefix := cellSupplyPrefix + zoneID + ":"
	var out []hex.CellID
	iter := s.redis.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, hex.CellID(iter.Val()[len(prefix):]))
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "cells: supply scan")
	}
	return out, nil
}

// hashInt reads a hash field as an int, clamping negatives to zero.
func hashInt(h map[string]string, field string) int {
	v, ok := h[field]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
