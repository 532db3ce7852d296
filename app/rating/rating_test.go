package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniform builds a record with every metric equal to v, with 10 maps per
// mode so the per-map rates come out as v as well.
func uniform(name string, role Role, maps, v float64) Record {
	return Record{
		Name:          name,
		Role:          role,
		SlayerRating:  80,
		HPK10m:        Float(v),
		HPDmg10m:      Float(v),
		HPObj10m:      Float(v),
		SNDKPR:        Float(v),
		FirstBloods:   Float(v * 10),
		PlantsDefuses: Float(v * 10),
		CTLK10m:       Float(v),
		CTLDmg10m:     Float(v),
		ZoneCaptures:  Float(v * 10),
		TotalMaps:     Float(maps),
		SNDMaps:       Float(10),
		CTLMaps:       Float(10),
	}
}

func TestClassifyPool(t *testing.T) {
	assert.Equal(t, Challengers, ClassifyPool(0))
	assert.Equal(t, Challengers, ClassifyPool(34))
	assert.Equal(t, CDL, ClassifyPool(35))
	assert.Equal(t, CDL, ClassifyPool(120))
}

func TestCDLRating(t *testing.T) {
	assert.Equal(t, 99.0, CDLRating(1))
	assert.Equal(t, 97.0, CDLRating(2))
	assert.Equal(t, 79.0, CDLRating(11))
	assert.Equal(t, 57.0, CDLRating(22))
	assert.Equal(t, 55.0, CDLRating(23))
	assert.Equal(t, 55.0, CDLRating(1000))

	for rank := 1; rank <= 22; rank++ {
		assert.Equal(t, float64(101-2*rank), CDLRating(rank), "rank %d", rank)
	}
}

func TestChallengersRating(t *testing.T) {
	assert.Equal(t, 80.0, ChallengersRating(1, 1))
	assert.Equal(t, 80.0, ChallengersRating(1, 0))
	assert.Equal(t, 75.0, ChallengersRating(1, 5))
	assert.Equal(t, 73.0, ChallengersRating(2, 5))
	assert.Equal(t, 51.0, ChallengersRating(13, 50))
	assert.Equal(t, 50.0, ChallengersRating(14, 50))
	assert.Equal(t, 50.0, ChallengersRating(20, 50))
}

func TestBlendWeights(t *testing.T) {
	tbl := []struct {
		games int
		want  Weights
	}{
		{0, Weights{0.50, 0.50}},
		{10, Weights{0.50, 0.50}},
		{11, Weights{0.65, 0.35}},
		{19, Weights{0.65, 0.35}},
		{20, Weights{0.80, 0.20}},
		{34, Weights{0.80, 0.20}},
		{35, Weights{0.95, 0.05}},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, BlendWeights(tt.games), "games %d", tt.games)
	}
}

func TestNameNormalization(t *testing.T) {
	assert.Equal(t, "big papa", NormalizeName("  Big   PAPA "))
	assert.Equal(t, "combined_big_papa", PlayerID("Big  Papa"))
	assert.Equal(t, "combined_o_t_o", PlayerID("O.T.O"))
}

func TestDeriveStats_MapFallbacks(t *testing.T) {
	r := Record{FirstBloods: Float(20), PlantsDefuses: Float(5), ZoneCaptures: Float(30)}

	// no map counts at all: 10 maps per mode
	s := DeriveStats(r)
	assert.InDelta(t, 2.0, s[FirstBloodsPerSNDMap], 1e-9)
	assert.InDelta(t, 0.5, s[PlantsDefusesPerSNDMap], 1e-9)
	assert.InDelta(t, 3.0, s[ZoneCapturesPerCTLMap], 1e-9)

	// a third of the total maps, rounded
	r.TotalMaps = Float(30)
	s = DeriveStats(r)
	assert.InDelta(t, 2.0, s[FirstBloodsPerSNDMap], 1e-9) // round(9.9) = 10
	assert.InDelta(t, 3.0, s[ZoneCapturesPerCTLMap], 1e-9)

	// mode counts take precedence
	r.SNDMaps = Float(5)
	r.CTLMaps = Float(15)
	s = DeriveStats(r)
	assert.InDelta(t, 4.0, s[FirstBloodsPerSNDMap], 1e-9)
	assert.InDelta(t, 1.0, s[PlantsDefusesPerSNDMap], 1e-9)
	assert.InDelta(t, 2.0, s[ZoneCapturesPerCTLMap], 1e-9)

	// a single map rounds down to zero maps, the rate must not blow up
	s = DeriveStats(Record{FirstBloods: Float(3), TotalMaps: Float(1)})
	assert.Equal(t, 0.0, s[FirstBloodsPerSNDMap])
}

func TestDeriveStats_MissingValuesAreZero(t *testing.T) {
	s := DeriveStats(Record{Name: "ghost", Role: AR})
	assert.Equal(t, Stats{}, s)
}

func TestMerge(t *testing.T) {
	cdl := []Record{
		{Name: "Simp", Role: AR, HPK10m: Float(10), FirstBloods: Float(10), SNDMaps: Float(5), TotalMaps: Float(20)},
		{Name: "Cellium", Role: SMG, HPK10m: Float(30), TotalMaps: Float(60)},
	}
	challengers := []Record{
		{Name: "  SIMP ", Role: SMG, HPK10m: Float(20), FirstBloods: Float(30), SNDMaps: Float(10), TotalMaps: Float(30)},
		{Name: "Newbie", Role: SMG, HPK10m: Float(7), TotalMaps: Float(12)},
	}

	players := Merge(cdl, challengers)
	require.Len(t, players, 3)

	simp := players[0]
	assert.Equal(t, "combined_simp", simp.ID)
	assert.Equal(t, AR, simp.Role, "cdl role wins")
	assert.Equal(t, 20, simp.CDLGames)
	assert.Equal(t, 30, simp.ChallengersGames)
	assert.Equal(t, Challengers, simp.Pool)
	assert.InDelta(t, 10*0.8+20*0.2, simp.Stats[HPK10m], 1e-9)
	assert.InDelta(t, 2*0.8+3*0.2, simp.Stats[FirstBloodsPerSNDMap], 1e-9)

	cellium := players[1]
	assert.Equal(t, CDL, cellium.Pool)
	assert.Equal(t, 0, cellium.ChallengersGames)
	assert.Equal(t, 30.0, cellium.Stats[HPK10m])

	newbie := players[2]
	assert.Equal(t, "combined_newbie", newbie.ID)
	assert.Equal(t, 0, newbie.CDLGames)
	assert.Equal(t, 12, newbie.ChallengersGames)
	assert.Equal(t, Challengers, newbie.Pool)
	assert.Equal(t, 7.0, newbie.Stats[HPK10m])
}

func TestMerge_DistinctIDs(t *testing.T) {
	e := New([]Record{
		uniform("o.t.o", AR, 40, 3),
		uniform("o t o", AR, 40, 1),
		uniform("x", AR, 40, 2),
		uniform("O.T.O", AR, 40, 3), // same player as the first one
	}, nil)

	players := e.Players()
	require.Len(t, players, 3)
	assert.Equal(t, "combined_o_t_o", players[0].ID)
	assert.Equal(t, "combined_o_t_o_2", players[1].ID)
	assert.Equal(t, "combined_x", players[2].ID)

	ratings := e.RateAll()
	require.Len(t, ratings, 3)
	assert.Equal(t, 99.0, ratings["combined_o_t_o"])
	assert.Equal(t, 97.0, ratings["combined_x"])
	assert.Equal(t, 95.0, ratings["combined_o_t_o_2"])
}

func TestMerge_CDLVeteranBarelyMoves(t *testing.T) {
	players := Merge(
		[]Record{{Name: "Vet", Role: AR, HPK10m: Float(20), TotalMaps: Float(80)}},
		[]Record{{Name: "vet", Role: AR, HPK10m: Float(40), TotalMaps: Float(5)}},
	)
	require.Len(t, players, 1)
	assert.Equal(t, CDL, players[0].Pool)
	assert.InDelta(t, 20*0.95+40*0.05, players[0].Stats[HPK10m], 1e-9)
}

func TestComputeBaselines(t *testing.T) {
	players := Merge([]Record{
		uniform("a", AR, 40, 2),
		uniform("b", SMG, 50, 4),
		uniform("c", SMG, 10, 100), // not in the CDL pool
	}, nil)

	b := ComputeBaselines(players)
	require.Len(t, b, len(StatKeys))
	for _, k := range StatKeys {
		assert.InDelta(t, 3.0, b[k], 1e-9, k.String())
	}

	assert.Empty(t, ComputeBaselines(Merge(nil, []Record{uniform("d", AR, 10, 1)})))
}

func TestNormalize(t *testing.T) {
	pl := Player{Pool: Challengers}
	pl.Stats[HPK10m] = 10
	pl.Stats[HPDmg10m] = 30
	pl.Stats[SNDKPR] = 0.7

	n := Normalize(pl, Baselines{HPK10m: 20, HPDmg10m: 20})
	assert.InDelta(t, 5.0, n[HPK10m], 1e-9, "shortfall counts double")
	assert.InDelta(t, 25.0, n[HPDmg10m], 1e-9, "surplus is halved")
	assert.InDelta(t, 0.7, n[SNDKPR], 1e-9, "no baseline, no adjustment")

	assert.Equal(t, pl.Stats, Normalize(pl, Baselines{}))
}

func TestRank(t *testing.T) {
	players := Merge([]Record{
		uniform("mid", AR, 40, 2),
		uniform("top", AR, 40, 3),
		uniform("bbb", AR, 40, 1),
		uniform("aaa", AR, 40, 1),
	}, nil)

	ranks := Rank(players, HPK10m, rawStats)
	assert.Equal(t, map[string]int{
		"combined_top": 1,
		"combined_mid": 2,
		"combined_aaa": 3, // ties ordered by id
		"combined_bbb": 4,
	}, ranks)

	assert.Empty(t, Rank(nil, HPK10m, rawStats))
}

func TestEngine_RatePlayerCDL(t *testing.T) {
	target := Record{
		Name: "Target", Role: AR, TotalMaps: Float(40), SNDMaps: Float(10), CTLMaps: Float(10),
		HPK10m: Float(10), HPDmg10m: Float(0.5), HPObj10m: Float(2.5), // ranks 1, 4, 2
		SNDKPR: Float(1.5), FirstBloods: Float(15), PlantsDefuses: Float(15), // rank 3 each
		CTLK10m: Float(10), CTLDmg10m: Float(10), ZoneCaptures: Float(5), // ranks 1, 1, 4
	}
	e := New([]Record{
		uniform("one", AR, 40, 3),
		uniform("two", AR, 40, 2),
		uniform("three", AR, 40, 1),
		target,
		uniform("smg", SMG, 40, 100), // other cohort
	}, nil)

	pl, ok := e.Lookup("target")
	require.True(t, ok)
	assert.Equal(t, CDL, pl.Pool)

	modes := e.ModeRatings(pl)
	assert.Equal(t, [2]float64{99, 97}, [2]float64{modes[0].Best[0].Rating, modes[0].Best[1].Rating})
	assert.Equal(t, [2]float64{95, 95}, [2]float64{modes[1].Best[0].Rating, modes[1].Best[1].Rating})
	assert.Equal(t, [2]float64{99, 99}, [2]float64{modes[2].Best[0].Rating, modes[2].Best[1].Rating})
	assert.Equal(t, 4, modes[0].All[1].Rank)
	assert.Equal(t, HPDmg10m, modes[0].All[1].Stat)
	assert.Equal(t, 98.0, modes[0].Average)

	// (99 + 97 + 95 + 95 + 99 + 99) / 6 = 97.333...
	assert.Equal(t, 97.33, e.RatePlayer(pl))

	one, ok := e.Lookup("One")
	require.True(t, ok)
	// best two: 99 99 | 99 99 | 99 97
	assert.Equal(t, 98.67, e.RatePlayer(one))
}

func TestEngine_RatePlayerChallengers(t *testing.T) {
	e := New(nil, []Record{
		uniform("solo", AR, 10, 1),
		uniform("x", SMG, 10, 3),
		uniform("y", SMG, 10, 2),
		uniform("z", SMG, 10, 1),
	})

	solo, _ := e.Lookup("solo")
	assert.Equal(t, 80.0, e.RatePlayer(solo), "single player cohort")

	x, _ := e.Lookup("x")
	assert.Equal(t, 75.0, e.RatePlayer(x))
	z, _ := e.Lookup("z")
	assert.Equal(t, 71.0, e.RatePlayer(z))
}

func TestEngine_ChallengersNormalizedAgainstCDL(t *testing.T) {
	e := New(
		[]Record{uniform("pro", AR, 40, 20)},
		[]Record{uniform("rookie", AR, 10, 10), uniform("star", AR, 10, 30)},
	)

	rookie, ok := e.Lookup("rookie")
	require.True(t, ok)

	b := e.Breakdown(rookie)
	require.NotNil(t, b.Normalized)
	assert.InDelta(t, 5.0, b.Normalized[HPK10m], 1e-9)
	assert.InDelta(t, 5.0, b.Modes[0].All[0].Value, 1e-9)
	assert.Equal(t, 2, b.Modes[0].All[0].Rank)
	assert.Equal(t, 73.0, b.Final)

	star, _ := e.Lookup("star")
	sb := e.Breakdown(star)
	assert.InDelta(t, 25.0, sb.Normalized[HPK10m], 1e-9)
	assert.Equal(t, 75.0, sb.Final)

	pro, _ := e.Lookup("pro")
	pb := e.Breakdown(pro)
	assert.Nil(t, pb.Normalized)
	assert.Equal(t, 99.0, pb.Final)
}

func TestEngine_UnrankedPlayerGetsLastRank(t *testing.T) {
	e := New([]Record{uniform("a", AR, 40, 2), uniform("b", AR, 40, 1)}, nil)

	outsider := Player{ID: "combined_nobody", Name: "nobody", Role: AR, Pool: CDL}
	sr := e.StatRating(outsider, HPK10m)
	assert.Equal(t, 2, sr.Rank)
	assert.Equal(t, 97.0, sr.Rating)
}

func TestEngine_CohortIsACopy(t *testing.T) {
	e := New([]Record{uniform("a", AR, 40, 2), uniform("b", AR, 40, 1)}, nil)
	b, ok := e.Lookup("b")
	require.True(t, ok)
	require.Equal(t, 97.0, e.RatePlayer(b))

	cohort := e.Cohort(CDL, AR)
	require.Len(t, cohort, 2)
	cohort[0].Stats[HPK10m] = 0

	assert.Equal(t, 97.0, e.RatePlayer(b))
	assert.Equal(t, 2.0, e.Cohort(CDL, AR)[0].Stats[HPK10m])
}

func TestEngine_RateAllIsIdempotent(t *testing.T) {
	e := New(
		[]Record{uniform("a", AR, 40, 2), uniform("b", SMG, 36, 3), uniform("c", AR, 50, 1)},
		[]Record{uniform("a", AR, 20, 9), uniform("d", AR, 12, 4), uniform("e", SMG, 3, 0.5)},
	)

	first := e.RateAll()
	second := e.RateAll()
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestEngine_FlatPlayers(t *testing.T) {
	e := New(
		[]Record{uniform("a", AR, 40, 2)},
		[]Record{uniform("A", SMG, 20, 4), uniform("b", SMG, 22, 1)},
	)

	flat := e.FlatPlayers()
	players := e.Players()
	require.Len(t, flat, len(players))

	for i, pl := range players {
		f := flat[i]
		assert.Equal(t, pl.ID, f.ID)
		assert.Equal(t, pl.Role, f.Role)
		got := Stats{
			f.HPK10m, f.HPDmg10m, f.HPObj10m,
			f.SNDKPR, f.FirstBloodsPerSNDMap, f.PlantsDefusesPerSNDMap,
			f.CTLK10m, f.CTLDmg10m, f.ZoneCapturesPerCTLMap,
		}
		assert.Equal(t, pl.Stats, got)
	}
	assert.Equal(t, 40, flat[0].TotalMaps)
	assert.InDelta(t, 2*0.95+4*0.05, flat[0].HPK10m, 1e-9)
}

func TestEngine_Rankings(t *testing.T) {
	e := New(
		[]Record{uniform("a", AR, 40, 2), uniform("b", AR, 40, 3), uniform("c", SMG, 40, 1)},
		[]Record{uniform("d", AR, 10, 1), uniform("e", SMG, 10, 1), uniform("f", SMG, 10, 2)},
	)

	r := e.Rankings()
	assert.Equal(t, Counts{
		Total: 6, CDL: 3, Challengers: 3,
		CDLAR: 2, CDLSMG: 1, ChallengersAR: 1, ChallengersSMG: 2,
	}, r.Counts)

	require.Len(t, r.All, 6)
	for i := 1; i < len(r.All); i++ {
		assert.GreaterOrEqual(t, r.All[i-1].Rating, r.All[i].Rating)
	}
	assert.Equal(t, "b", r.All[0].Name)
	assert.Len(t, r.ByPool[CDL], 3)
	assert.Len(t, r.ByRole[SMG], 3)
	assert.Equal(t, "f", r.ByPool[Challengers][1].Name)
}

func TestTeamByID(t *testing.T) {
	team, ok := TeamByID(" OpTiC ")
	require.True(t, ok)
	assert.Equal(t, "OPTIC TEXAS", team.Name)

	_, ok = TeamByID("nope")
	assert.False(t, ok)
	assert.Len(t, CDLTeams, 12)
}

func TestTeamStats(t *testing.T) {
	players := Merge([]Record{uniform("a", AR, 40, 2), uniform("b", SMG, 40, 4)}, nil)

	stats := TeamStats(players)
	for _, k := range StatKeys {
		assert.InDelta(t, 3.0, stats[k], 1e-9, k.String())
	}
	assert.Equal(t, Stats{}, TeamStats(nil))
}

func TestRankTeams(t *testing.T) {
	var top, mid, tied Stats
	top[HPK10m], mid[HPK10m], tied[HPK10m] = 3, 2, 2
	top[SNDKPR] = 1

	ranks := RankTeams([]Stats{mid, top, tied})
	require.Len(t, ranks, 3)
	assert.Equal(t, 2, ranks[0].Get(HPK10m))
	assert.Equal(t, 1, ranks[1].Get(HPK10m))
	assert.Equal(t, 3, ranks[2].Get(HPK10m), "ties keep the given order")

	assert.Equal(t, 1, ranks[1].Get(SNDKPR))
	assert.Equal(t, 2, ranks[0].Get(SNDKPR))
	assert.Equal(t, 3, ranks[2].Get(SNDKPR))
}
