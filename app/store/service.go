package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

// Displayed rating bounds, applied after the overrides.
const (
	MinRating = 50
	MaxRating = 99
)

// ErrNoData is issued when a rating is requested before any pool is loaded.
var ErrNoData = errors.New("no player data loaded")

// Service wraps the rating engine with the stored overrides and rosters.
// The engine is rebuilt on Reload and swapped atomically.
type Service struct {
	Store *Store

	mu         sync.RWMutex
	engine     *rating.Engine
	overrides  map[string]float64
	rosters    map[string]roster // by team ID
	powerRanks map[string]int    // by team ID
}

// Reload rebuilds the engine from the stored pools and overrides.
func (s *Service) Reload(ctx context.Context) error {
	cdl, err := s.Store.Records(ctx, rating.CDL)
	if err != nil {
		return fmt.Errorf("load cdl records: %w", err)
	}

	challengers, err := s.Store.Records(ctx, rating.Challengers)
	if err != nil {
		return fmt.Errorf("load challengers records: %w", err)
	}

	overrides, err := s.Store.Overrides(ctx)
	if err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}

	s.Use(rating.New(cdl, challengers), overrides)
	return s.LoadRosters(ctx)
}

// LoadRosters replaces the rosters and power ranks with the stored ones.
func (s *Service) LoadRosters(ctx context.Context) error {
	slots, err := s.Store.Slots(ctx)
	if err != nil {
		return fmt.Errorf("load rosters: %w", err)
	}

	ranks, err := s.Store.PowerRanks(ctx)
	if err != nil {
		return fmt.Errorf("load power ranks: %w", err)
	}

	rosters := make(map[string]roster)
	for _, sl := range slots {
		if sl.Slot < 1 || sl.Slot > rating.RosterSize {
			log.Printf("[WARN] skip slot %d of team %s, out of range", sl.Slot, sl.TeamID)
			continue
		}
		r := rosters[sl.TeamID]
		r[sl.Slot-1] = sl.NameKey
		rosters[sl.TeamID] = r
	}

	log.Printf("[INFO] loaded %d rostered players, %d power ranks", len(slots), len(ranks))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters = rosters
	s.powerRanks = ranks
	return nil
}

// Use replaces the engine and the overrides.
func (s *Service) Use(e *rating.Engine, overrides map[string]float64) {
	counts := e.Rankings().Counts
	log.Printf("[INFO] rating engine ready: %d players, cdl %d (ar %d, smg %d), challengers %d (ar %d, smg %d), %d overrides",
		counts.Total, counts.CDL, counts.CDLAR, counts.CDLSMG,
		counts.Challengers, counts.ChallengersAR, counts.ChallengersSMG, len(overrides))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = e
	s.overrides = overrides
}

func (s *Service) state() (*rating.Engine, map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil, nil, ErrNoData
	}
	return s.engine, s.overrides, nil
}

// Engine returns the current rating engine.
func (s *Service) Engine() (*rating.Engine, error) {
	e, _, err := s.state()
	return e, err
}

// Top returns the rated players, best first, filtered by the request.
func (s *Service) Top(req TopRequest) ([]Rated, error) {
	e, overrides, err := s.state()
	if err != nil {
		return nil, err
	}

	var res []Rated
	for _, en := range e.Rankings().All {
		if req.Pool != "" && en.Pool != req.Pool {
			continue
		}
		if req.Role != "" && en.Role != req.Role {
			continue
		}

		delta := lookupOverride(overrides, en.Name)
		r := Rated{Entry: en, Base: en.Rating, Override: delta}
		r.Rating = Clamp(en.Rating + delta)
		res = append(res, r)
	}

	// overrides may reorder the list
	sortRated(res)

	if req.Limit > 0 && len(res) > req.Limit {
		res = res[:req.Limit]
	}
	return res, nil
}

// Ratings returns the final rating of every player by player ID.
func (s *Service) Ratings() (map[string]float64, error) {
	e, overrides, err := s.state()
	if err != nil {
		return nil, err
	}

	res := make(map[string]float64)
	for _, pl := range e.Players() {
		res[pl.ID] = Clamp(e.RatePlayer(pl) + lookupOverride(overrides, pl.Name))
	}
	return res, nil
}

// Player returns the rating report of the named player.
func (s *Service) Player(name string) (Report, error) {
	e, overrides, err := s.state()
	if err != nil {
		return Report{}, err
	}

	pl, ok := e.Lookup(name)
	if !ok {
		return Report{}, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}

	b := e.Breakdown(pl)
	delta := lookupOverride(overrides, pl.Name)
	return Report{Breakdown: b, Override: delta, Rating: Clamp(b.Final + delta)}, nil
}

// SetOverride stores the adjustment for the named player and applies it.
func (s *Service) SetOverride(ctx context.Context, name string, delta float64) error {
	key := OverrideKey(name)
	if key == "" {
		return fmt.Errorf("empty override key for %q", name)
	}

	if err := s.Store.SetOverride(ctx, key, delta); err != nil {
		return fmt.Errorf("set override: %w", err)
	}

	s.updateOverrides(func(m map[string]float64) { m[key] = delta })
	return nil
}

// DeleteOverride removes the adjustment of the named player.
func (s *Service) DeleteOverride(ctx context.Context, name string) error {
	key := OverrideKey(name)
	if err := s.Store.DeleteOverride(ctx, key); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}

	s.updateOverrides(func(m map[string]float64) { delete(m, key) })
	return nil
}

// updateOverrides applies fn to a copy of the overrides, readers keep
// the map they already hold.
func (s *Service) updateOverrides(fn func(map[string]float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]float64, len(s.overrides)+1)
	for k, v := range s.overrides {
		next[k] = v
	}
	fn(next)
	s.overrides = next
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// OverrideKey returns the override key of a player name: lowercase with
// everything but letters and digits stripped.
func OverrideKey(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}

// lookupOverride finds the adjustment by the plain key first, then by the
// "cdl_" prefixed one.
func lookupOverride(overrides map[string]float64, name string) float64 {
	key := OverrideKey(name)
	if d := overrides[key]; d != 0 {
		return d
	}
	return overrides["cdl_"+key]
}

// Clamp limits a rating to the displayed range.
func Clamp(r float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, r))
}
