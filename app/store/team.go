package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

var (
	// ErrUnknownTeam is issued for a team ID missing in rating.CDLTeams.
	ErrUnknownTeam = errors.New("unknown team")
	// ErrBadSlot is issued for a slot outside of 1..rating.RosterSize.
	ErrBadSlot = errors.New("slot out of range")
	// ErrRostered is issued when the player already holds another slot.
	ErrRostered = errors.New("player already rostered")
)

// unrankedPower places teams without a power rank after the ranked ones.
const unrankedPower = 999

// roster holds the normalized player names per slot, empty for a free slot.
type roster [rating.RosterSize]string

// TeamReport is a team with its rostered players and averages.
type TeamReport struct {
	rating.Team
	Players   [rating.RosterSize]*Rated // nil for an empty slot
	Rating    float64                   // average final rating of the rostered players
	Stats     rating.Stats              // average stats of the rostered players
	Ranks     rating.StatRanks          // stat ranks across all teams
	PowerRank int                       // 0 when unset
}

// Size returns the amount of rostered players.
func (t TeamReport) Size() int {
	n := 0
	for _, p := range t.Players {
		if p != nil {
			n++
		}
	}
	return n
}

// Assign puts the named player into the team slot, slots start at 1.
func (s *Service) Assign(ctx context.Context, teamID string, slot int, name string) error {
	team, err := teamSlot(teamID, slot)
	if err != nil {
		return err
	}

	e, _, err := s.state()
	if err != nil {
		return err
	}

	pl, ok := e.Lookup(name)
	if !ok {
		return fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	key := rating.NormalizeName(pl.Name)

	rosters, _ := s.rosterState()
	for id, r := range rosters {
		for idx, k := range r {
			if k == key && (id != team.ID || idx != slot-1) {
				return fmt.Errorf("%s holds slot %d of %s: %w", pl.Name, idx+1, id, ErrRostered)
			}
		}
	}

	if err := s.Store.SetSlot(ctx, Slot{TeamID: team.ID, Slot: slot, NameKey: key}); err != nil {
		return fmt.Errorf("set slot: %w", err)
	}

	s.updateRosters(func(m map[string]roster) {
		r := m[team.ID]
		r[slot-1] = key
		m[team.ID] = r
	})
	return nil
}

// Release empties the team slot.
func (s *Service) Release(ctx context.Context, teamID string, slot int) error {
	team, err := teamSlot(teamID, slot)
	if err != nil {
		return err
	}

	if err := s.Store.ClearSlot(ctx, team.ID, slot); err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}

	s.updateRosters(func(m map[string]roster) {
		r := m[team.ID]
		r[slot-1] = ""
		m[team.ID] = r
	})
	return nil
}

// SetPowerRank sets the custom display rank of the team, ranks start at 1.
func (s *Service) SetPowerRank(ctx context.Context, teamID string, rank int) error {
	team, ok := rating.TeamByID(teamID)
	if !ok {
		return fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
	}
	if rank < 1 {
		return fmt.Errorf("power rank %d, must be positive", rank)
	}

	if err := s.Store.SetPowerRank(ctx, team.ID, rank); err != nil {
		return fmt.Errorf("set power rank: %w", err)
	}

	s.updatePowerRanks(func(m map[string]int) { m[team.ID] = rank })
	return nil
}

// ClearPowerRank removes the custom display rank of the team.
func (s *Service) ClearPowerRank(ctx context.Context, teamID string) error {
	team, ok := rating.TeamByID(teamID)
	if !ok {
		return fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
	}

	if err := s.Store.ClearPowerRank(ctx, team.ID); err != nil {
		return fmt.Errorf("clear power rank: %w", err)
	}

	s.updatePowerRanks(func(m map[string]int) { delete(m, team.ID) })
	return nil
}

// Teams returns every team with its roster, rating, stat averages and stat
// ranks. Teams are listed in league order, or by power rank once any team
// has one.
func (s *Service) Teams() ([]TeamReport, error) {
	e, overrides, err := s.state()
	if err != nil {
		return nil, err
	}
	rosters, powerRanks := s.rosterState()

	res := make([]TeamReport, 0, len(rating.CDLTeams))
	for _, t := range rating.CDLTeams {
		tr := TeamReport{Team: t, PowerRank: powerRanks[t.ID]}

		var players []rating.Player
		sum := 0.0
		for idx, key := range rosters[t.ID] {
			if key == "" {
				continue
			}
			pl, ok := e.Lookup(key)
			if !ok {
				continue // gone from the pools since assigned
			}
			r := rate(e, overrides, pl)
			tr.Players[idx] = &r
			players = append(players, pl)
			sum += r.Rating
		}

		if len(players) > 0 {
			tr.Rating = sum / float64(len(players))
		}
		tr.Stats = rating.TeamStats(players)
		res = append(res, tr)
	}

	if len(powerRanks) > 0 {
		sort.SliceStable(res, func(i, j int) bool {
			return powerOrder(res[i].PowerRank) < powerOrder(res[j].PowerRank)
		})
	}

	stats := make([]rating.Stats, len(res))
	for i, tr := range res {
		stats[i] = tr.Stats
	}
	for i, ranks := range rating.RankTeams(stats) {
		res[i].Ranks = ranks
	}
	return res, nil
}

// Team returns the report of a single team.
func (s *Service) Team(teamID string) (TeamReport, error) {
	team, ok := rating.TeamByID(teamID)
	if !ok {
		return TeamReport{}, fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
	}

	teams, err := s.Teams()
	if err != nil {
		return TeamReport{}, err
	}
	for _, tr := range teams {
		if tr.ID == team.ID {
			return tr, nil
		}
	}
	return TeamReport{}, fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
}

// FreeAgents returns the rated players without a roster slot, best first,
// filtered by the request.
func (s *Service) FreeAgents(req TopRequest) ([]Rated, error) {
	rated, err := s.Top(TopRequest{Pool: req.Pool, Role: req.Role})
	if err != nil {
		return nil, err
	}

	rosters, _ := s.rosterState()
	rostered := make(map[string]bool)
	for _, r := range rosters {
		for _, key := range r {
			if key != "" {
				rostered[key] = true
			}
		}
	}

	res := make([]Rated, 0, len(rated))
	for _, r := range rated {
		if rostered[rating.NormalizeName(r.Name)] {
			continue
		}
		res = append(res, r)
	}

	if req.Limit > 0 && len(res) > req.Limit {
		res = res[:req.Limit]
	}
	return res, nil
}

func (s *Service) rosterState() (map[string]roster, map[string]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rosters, s.powerRanks
}

// updateRosters applies fn to a copy of the rosters.
func (s *Service) updateRosters(fn func(map[string]roster)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]roster, len(s.rosters)+1)
	for k, v := range s.rosters {
		next[k] = v
	}
	fn(next)
	s.rosters = next
}

// updatePowerRanks applies fn to a copy of the power ranks.
func (s *Service) updatePowerRanks(fn func(map[string]int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]int, len(s.powerRanks)+1)
	for k, v := range s.powerRanks {
		next[k] = v
	}
	fn(next)
	s.powerRanks = next
}

// rate returns the final rating of the player with the override applied.
func rate(e *rating.Engine, overrides map[string]float64, pl rating.Player) Rated {
	base := e.RatePlayer(pl)
	delta := lookupOverride(overrides, pl.Name)
	return Rated{
		Entry: rating.Entry{
			ID:               pl.ID,
			Name:             pl.Name,
			Role:             pl.Role,
			Pool:             pl.Pool,
			CDLGames:         pl.CDLGames,
			ChallengersGames: pl.ChallengersGames,
			Rating:           Clamp(base + delta),
		},
		Base:     base,
		Override: delta,
	}
}

func teamSlot(teamID string, slot int) (rating.Team, error) {
	team, ok := rating.TeamByID(teamID)
	if !ok {
		return rating.Team{}, fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
	}
	if slot < 1 || slot > rating.RosterSize {
		return rating.Team{}, fmt.Errorf("slot %d: %w", slot, ErrBadSlot)
	}
	return team, nil
}

func powerOrder(rank int) int {
	if rank == 0 {
		return unrankedPower
	}
	return rank
}
