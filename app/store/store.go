package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

// ErrNotFound indicates that the entity hasn't been found in the database.
var ErrNotFound = errors.New("not found")

// Store keeps the imported pool snapshots, the rating overrides and the
// team rosters.
type Store struct {
	db *sqlx.DB
}

// New prepares the database.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS records (
			pool TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			slayer_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			hp_k10m DOUBLE PRECISION,
			hp_dmg10m DOUBLE PRECISION,
			hp_obj10m DOUBLE PRECISION,
			hp_eng10m DOUBLE PRECISION,
			snd_kpr DOUBLE PRECISION,
			first_bloods DOUBLE PRECISION,
			opd_win_pct DOUBLE PRECISION,
			plants_defuses DOUBLE PRECISION,
			ctl_k10m DOUBLE PRECISION,
			ctl_dmg10m DOUBLE PRECISION,
			ctl_eng10m DOUBLE PRECISION,
			zone_captures DOUBLE PRECISION,
			total_maps DOUBLE PRECISION,
			snd_maps DOUBLE PRECISION,
			ctl_maps DOUBLE PRECISION,
			hp_maps DOUBLE PRECISION,
			game_time_min DOUBLE PRECISION,
			PRIMARY KEY (pool, position)
		);
		CREATE TABLE IF NOT EXISTS overrides (
			name_key TEXT PRIMARY KEY,
			delta DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS rosters (
			team_id TEXT NOT NULL,
			slot INTEGER NOT NULL,
			name_key TEXT NOT NULL UNIQUE,
			PRIMARY KEY (team_id, slot)
		);
		CREATE TABLE IF NOT EXISTS power_ranks (
			team_id TEXT PRIMARY KEY,
			rank INTEGER NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// recordRow is a rating.Record as stored in the records table.
type recordRow struct {
	Pool          rating.Pool `db:"pool"`
	Position      int         `db:"position"`
	Name          string      `db:"name"`
	Role          rating.Role `db:"role"`
	SlayerRating  float64     `db:"slayer_rating"`
	HPK10m        *float64    `db:"hp_k10m"`
	HPDmg10m      *float64    `db:"hp_dmg10m"`
	HPObj10m      *float64    `db:"hp_obj10m"`
	HPEng10m      *float64    `db:"hp_eng10m"`
	SNDKPR        *float64    `db:"snd_kpr"`
	FirstBloods   *float64    `db:"first_bloods"`
	OPDWinPct     *float64    `db:"opd_win_pct"`
	PlantsDefuses *float64    `db:"plants_defuses"`
	CTLK10m       *float64    `db:"ctl_k10m"`
	CTLDmg10m     *float64    `db:"ctl_dmg10m"`
	CTLEng10m     *float64    `db:"ctl_eng10m"`
	ZoneCaptures  *float64    `db:"zone_captures"`
	TotalMaps     *float64    `db:"total_maps"`
	SNDMaps       *float64    `db:"snd_maps"`
	CTLMaps       *float64    `db:"ctl_maps"`
	HPMaps        *float64    `db:"hp_maps"`
	GameTimeMin   *float64    `db:"game_time_min"`
}

func toRow(pool rating.Pool, pos int, r rating.Record) recordRow {
	return recordRow{
		Pool: pool, Position: pos, Name: r.Name, Role: r.Role, SlayerRating: r.SlayerRating,
		HPK10m: r.HPK10m, HPDmg10m: r.HPDmg10m, HPObj10m: r.HPObj10m, HPEng10m: r.HPEng10m,
		SNDKPR: r.SNDKPR, FirstBloods: r.FirstBloods, OPDWinPct: r.OPDWinPct, PlantsDefuses: r.PlantsDefuses,
		CTLK10m: r.CTLK10m, CTLDmg10m: r.CTLDmg10m, CTLEng10m: r.CTLEng10m, ZoneCaptures: r.ZoneCaptures,
		TotalMaps: r.TotalMaps, SNDMaps: r.SNDMaps, CTLMaps: r.CTLMaps, HPMaps: r.HPMaps,
		GameTimeMin: r.GameTimeMin,
	}
}

func (r recordRow) record() rating.Record {
	return rating.Record{
		Name: r.Name, Role: r.Role, SlayerRating: r.SlayerRating,
		HPK10m: r.HPK10m, HPDmg10m: r.HPDmg10m, HPObj10m: r.HPObj10m, HPEng10m: r.HPEng10m,
		SNDKPR: r.SNDKPR, FirstBloods: r.FirstBloods, OPDWinPct: r.OPDWinPct, PlantsDefuses: r.PlantsDefuses,
		CTLK10m: r.CTLK10m, CTLDmg10m: r.CTLDmg10m, CTLEng10m: r.CTLEng10m, ZoneCaptures: r.ZoneCaptures,
		TotalMaps: r.TotalMaps, SNDMaps: r.SNDMaps, CTLMaps: r.CTLMaps, HPMaps: r.HPMaps,
		GameTimeMin: r.GameTimeMin,
	}
}

// ReplacePool replaces the stored snapshot of the pool with the given records.
func (s *Store) ReplacePool(ctx context.Context, pool rating.Pool, recs []rating.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE pool = ?`, pool); err != nil {
		return fmt.Errorf("clear pool: %w", err)
	}

	const query = `INSERT INTO records (
				pool, position, name, role, slayer_rating,
				hp_k10m, hp_dmg10m, hp_obj10m, hp_eng10m,
				snd_kpr, first_bloods, opd_win_pct, plants_defuses,
				ctl_k10m, ctl_dmg10m, ctl_eng10m, zone_captures,
				total_maps, snd_maps, ctl_maps, hp_maps, game_time_min
			) VALUES (
				:pool, :position, :name, :role, :slayer_rating,
				:hp_k10m, :hp_dmg10m, :hp_obj10m, :hp_eng10m,
				:snd_kpr, :first_bloods, :opd_win_pct, :plants_defuses,
				:ctl_k10m, :ctl_dmg10m, :ctl_eng10m, :zone_captures,
				:total_maps, :snd_maps, :ctl_maps, :hp_maps, :game_time_min
			)`

	for pos, r := range recs {
		if _, err := tx.NamedExecContext(ctx, query, toRow(pool, pos, r)); err != nil {
			return fmt.Errorf("insert record %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Records returns the stored snapshot of the pool in import order.
func (s *Store) Records(ctx context.Context, pool rating.Pool) ([]rating.Record, error) {
	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM records WHERE pool = ? ORDER BY position`, pool); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	recs := make([]rating.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

// SetOverride sets the rating adjustment for the override key.
func (s *Store) SetOverride(ctx context.Context, key string, delta float64) error {
	const query = `INSERT INTO overrides (name_key, delta) VALUES (?, ?)
		ON CONFLICT(name_key) DO UPDATE SET delta = excluded.delta`

	if _, err := s.db.ExecContext(ctx, query, key, delta); err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// DeleteOverride removes the rating adjustment for the override key.
func (s *Store) DeleteOverride(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM overrides WHERE name_key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return expectAffected(res)
}

// expectAffected returns ErrNotFound when the statement changed no rows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Overrides returns every rating adjustment by override key.
func (s *Store) Overrides(ctx context.Context) (map[string]float64, error) {
	var rows []struct {
		Key   string  `db:"name_key"`
		Delta float64 `db:"delta"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT name_key, delta FROM overrides`); err != nil {
		return nil, fmt.Errorf("select overrides: %w", err)
	}

	res := make(map[string]float64, len(rows))
	for _, r := range rows {
		res[r.Key] = r.Delta
	}
	return res, nil
}
