package store

import (
	"context"
	"fmt"
)

// Slot is a rostered player: the team, the 1-based slot and the normalized
// player name.
type Slot struct {
	TeamID  string `db:"team_id"`
	Slot    int    `db:"slot"`
	NameKey string `db:"name_key"`
}

// SetSlot puts the player into the team slot, replacing whoever was there.
// A player can hold a single slot only.
func (s *Store) SetSlot(ctx context.Context, sl Slot) error {
	const query = `INSERT INTO rosters (team_id, slot, name_key) VALUES (:team_id, :slot, :name_key)
		ON CONFLICT(team_id, slot) DO UPDATE SET name_key = excluded.name_key`

	if _, err := s.db.NamedExecContext(ctx, query, sl); err != nil {
		return fmt.Errorf("upsert slot %s/%d: %w", sl.TeamID, sl.Slot, err)
	}
	return nil
}

// ClearSlot empties the team slot.
func (s *Store) ClearSlot(ctx context.Context, teamID string, slot int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rosters WHERE team_id = ? AND slot = ?`, teamID, slot)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return expectAffected(res)
}

// Slots returns every filled slot ordered by team and slot.
func (s *Store) Slots(ctx context.Context) ([]Slot, error) {
	var res []Slot
	if err := s.db.SelectContext(ctx, &res, `SELECT team_id, slot, name_key FROM rosters ORDER BY team_id, slot`); err != nil {
		return nil, fmt.Errorf("select slots: %w", err)
	}
	return res, nil
}

// SetPowerRank sets the custom display rank of the team.
func (s *Store) SetPowerRank(ctx context.Context, teamID string, rank int) error {
	const query = `INSERT INTO power_ranks (team_id, rank) VALUES (?, ?)
		ON CONFLICT(team_id) DO UPDATE SET rank = excluded.rank`

	if _, err := s.db.ExecContext(ctx, query, teamID, rank); err != nil {
		return fmt.Errorf("upsert power rank: %w", err)
	}
	return nil
}

// ClearPowerRank removes the custom display rank of the team.
func (s *Store) ClearPowerRank(ctx context.Context, teamID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM power_ranks WHERE team_id = ?`, teamID)
	if err != nil {
		return fmt.Errorf("delete power rank: %w", err)
	}
	return expectAffected(res)
}

// PowerRanks returns the custom display ranks by team ID.
func (s *Store) PowerRanks(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		TeamID string `db:"team_id"`
		Rank   int    `db:"rank"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT team_id, rank FROM power_ranks`); err != nil {
		return nil, fmt.Errorf("select power ranks: %w", err)
	}

	res := make(map[string]int, len(rows))
	for _, r := range rows {
		res[r.TeamID] = r.Rank
	}
	return res, nil
}
