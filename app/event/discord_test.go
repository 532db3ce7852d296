package event

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/store"
)

func prepDiscord(t *testing.T) *Discord {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.ReplacePool(ctx, rating.CDL, []rating.Record{
		{Name: "Simp", Role: rating.AR, HPK10m: rating.Float(25), TotalMaps: rating.Float(50)},
		{Name: "Abuzah", Role: rating.AR, HPK10m: rating.Float(22), TotalMaps: rating.Float(50)},
	}))
	require.NoError(t, s.ReplacePool(ctx, rating.Challengers, []rating.Record{
		{Name: "Kid Nova", Role: rating.SMG, HPK10m: rating.Float(20), TotalMaps: rating.Float(12)},
	}))

	svc := &store.Service{Store: s}
	require.NoError(t, svc.Reload(ctx))

	return &Discord{AdminIDs: []string{"admin"}, Service: svc}
}

func TestDiscord_Route(t *testing.T) {
	d := prepDiscord(t)

	assert.NotNil(t, d.route("!rating", "user"))
	assert.NotNil(t, d.route("!top", "user"))
	assert.Nil(t, d.route("!reload", "user"))
	assert.Nil(t, d.route("!override", "user"))
	assert.NotNil(t, d.route("!override", "admin"))
	assert.Nil(t, d.route("!unknown", "admin"))
	assert.NotNil(t, d.route("!teams", "user"))
	assert.NotNil(t, d.route("!roster", "user"))
	assert.NotNil(t, d.route("!freeagents", "user"))
	assert.Nil(t, d.route("!assign", "user"))
	assert.Nil(t, d.route("!release", "user"))
	assert.Nil(t, d.route("!powerrank", "user"))
	assert.NotNil(t, d.route("!assign", "admin"))
}

func TestDiscord_Rating(t *testing.T) {
	d := prepDiscord(t)
	ctx := context.Background()

	reply, err := d.rating(ctx, []string{"kid", "nova"})
	require.NoError(t, err)
	assert.Equal(t, "Kid Nova (SMG, Challengers): 80.00", reply)

	reply, err = d.rating(ctx, []string{"ghost"})
	require.NoError(t, err)
	assert.Equal(t, "player not found", reply)

	reply, err = d.rating(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "usage")
}

func TestDiscord_Top(t *testing.T) {
	d := prepDiscord(t)

	reply, err := d.top(context.Background(), []string{"cdl"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "```"))
	assert.Contains(t, reply, "Simp")
	assert.NotContains(t, reply, "Kid Nova")

	reply, err = d.top(context.Background(), []string{"bogus"})
	require.NoError(t, err)
	assert.Contains(t, reply, "usage")
}

func TestDiscord_Override(t *testing.T) {
	d := prepDiscord(t)
	ctx := context.Background()

	reply, err := d.override(ctx, []string{"Kid", "Nova", "-5"})
	require.NoError(t, err)
	assert.Equal(t, "override for Kid Nova set to -5", reply)

	reply, err = d.rating(ctx, []string{"kid", "nova"})
	require.NoError(t, err)
	assert.Equal(t, "Kid Nova (SMG, Challengers): 75.00 (engine 80.00, override -5)", reply)

	reply, err = d.override(ctx, []string{"Kid", "Nova", "off"})
	require.NoError(t, err)
	assert.Equal(t, "override for Kid Nova removed", reply)

	reply, err = d.override(ctx, []string{"Kid", "Nova", "off"})
	require.NoError(t, err)
	assert.Equal(t, "no override set", reply)
}

func TestDiscord_Rosters(t *testing.T) {
	d := prepDiscord(t)
	ctx := context.Background()

	reply, err := d.assign(ctx, []string{"OpTiC", "1", "kid", "nova"})
	require.NoError(t, err)
	assert.Equal(t, "kid nova assigned to optic slot 1", reply)

	reply, err = d.assign(ctx, []string{"faze", "2", "Kid", "Nova"})
	require.NoError(t, err)
	assert.Equal(t, "player is already on a roster", reply)

	reply, err = d.assign(ctx, []string{"nope", "1", "simp"})
	require.NoError(t, err)
	assert.Contains(t, reply, "unknown team, one of: heretics, optic")

	reply, err = d.assign(ctx, []string{"faze", "9", "simp"})
	require.NoError(t, err)
	assert.Equal(t, "slot must be 1 to 4", reply)

	reply, err = d.roster(ctx, []string{"optic"})
	require.NoError(t, err)
	assert.Contains(t, reply, "OPTIC TEXAS (optic) rating: 80.00")
	assert.Contains(t, reply, "Kid Nova")

	reply, err = d.freeAgents(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "Simp")
	assert.NotContains(t, reply, "Kid Nova")

	reply, err = d.powerRank(ctx, []string{"optic", "1"})
	require.NoError(t, err)
	assert.Equal(t, "optic power rank set to 1", reply)

	reply, err = d.teams(ctx, nil)
	require.NoError(t, err)
	assert.Less(t, strings.Index(reply, "OPTIC TEXAS"), strings.Index(reply, "MIAMI HERETICS"))

	reply, err = d.powerRank(ctx, []string{"optic", "off"})
	require.NoError(t, err)
	assert.Equal(t, "optic power rank removed", reply)

	reply, err = d.release(ctx, []string{"optic", "1"})
	require.NoError(t, err)
	assert.Equal(t, "optic slot 1 released", reply)

	reply, err = d.release(ctx, []string{"optic", "1"})
	require.NoError(t, err)
	assert.Equal(t, "slot is empty", reply)
}

func TestDiscord_NoData(t *testing.T) {
	d := &Discord{Service: &store.Service{}}
	reply, err := d.top(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "no ratings loaded yet", reply)
}

func TestCodeBlock(t *testing.T) {
	assert.Equal(t, "```\nabc\n```", codeBlock("abc"))

	long := codeBlock(strings.Repeat("x", 5000))
	assert.Len(t, long, maxMessageLen)
	assert.True(t, strings.HasSuffix(long, "...\n```"))

	accented := codeBlock("a" + strings.Repeat("é", 1500))
	assert.True(t, utf8.ValidString(accented))
	assert.LessOrEqual(t, len(accented), maxMessageLen)
	assert.True(t, strings.HasSuffix(accented, "é\n...\n```"))
}
