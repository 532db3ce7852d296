package event

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/report"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// maxMessageLen is the Discord message length limit.
const maxMessageLen = 2000

// defaultTopLimit is the amount of players listed by !top without a limit.
const defaultTopLimit = 10

// Discord is a handler for Discord commands.
type Discord struct {
	Token          string
	AdminIDs       []string
	ChannelIDs     []string // empty means every channel
	Service        *store.Service
	HandlerTimeout time.Duration
	se             *discordgo.Session
}

// Run runs the Discord handler.
// Blocking call.
func (d *Discord) Run(ctx context.Context) error {
	if d.HandlerTimeout == 0 {
		d.HandlerTimeout = 5 * time.Second
	}

	se, err := discordgo.New(fmt.Sprintf("Bot %s", d.Token))
	if err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	d.se = se
	d.se.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	d.se.AddHandler(d.onMessage)

	log.Printf("[INFO] opening discord session")
	if err := d.se.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	<-ctx.Done()

	log.Printf("[WARN] stopping bot with reason: %v", context.Cause(ctx))
	if err := d.se.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}

	return nil
}

type command func(ctx context.Context, args []string) (reply string, err error)

func (d *Discord) onMessage(s *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author.ID == s.State.User.ID {
		return // ignore messages from the bot
	}

	if !d.allowedChannel(msg.ChannelID) {
		return
	}

	log.Printf("[DEBUG] received message from %s: %s", msg.ChannelID, msg.Content)

	content := strings.TrimSpace(msg.Content)
	if content == "" || !strings.HasPrefix(content, "!") {
		return // do nothing
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.HandlerTimeout)
	defer cancel()

	fields := strings.Fields(content)
	cmd := d.route(strings.ToLower(fields[0]), msg.Author.ID)
	if cmd == nil {
		return // do nothing
	}

	replyTo := &discordgo.MessageReference{MessageID: msg.ID, ChannelID: msg.ChannelID}
	reply, err := cmd(ctx, fields[1:]) // first word is the command itself
	if err != nil {
		log.Printf("[WARN] failed to execute command %q: %v", fields[0], err)
		reply = "failed to execute command, check logs"
	}
	if _, err = s.ChannelMessageSendReply(msg.ChannelID, reply, replyTo); err != nil {
		log.Printf("[WARN] failed to send message: %v", err)
	}
}

// route returns the handler of the command, nil for unknown commands and
// admin commands issued by non admins.
func (d *Discord) route(name, authorID string) command {
	switch name {
	case "!rating":
		return d.rating
	case "!top":
		return d.top
	case "!breakdown":
		return d.breakdown
	case "!pools":
		return d.pools
	case "!teams":
		return d.teams
	case "!roster":
		return d.roster
	case "!freeagents":
		return d.freeAgents
	case "!ping":
		return d.ping
	case "!help":
		return d.help
	}

	if !d.isAdmin(authorID) {
		return nil
	}

	switch name {
	case "!reload":
		return d.reload
	case "!override":
		return d.override
	case "!assign":
		return d.assign
	case "!release":
		return d.release
	case "!powerrank":
		return d.powerRank
	}
	return nil
}

func (d *Discord) rating(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "usage: !rating <name>", nil
	}

	rep, err := d.Service.Player(strings.Join(args, " "))
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get player: %w", err)
	}

	pl := rep.Player
	reply := fmt.Sprintf("%s (%s, %s): %.2f", pl.Name, pl.Role, pl.Pool, rep.Rating)
	if rep.Override != 0 {
		reply += fmt.Sprintf(" (engine %.2f, override %+g)", rep.Final, rep.Override)
	}
	return reply, nil
}

func (d *Discord) top(_ context.Context, args []string) (string, error) {
	req, err := store.ParseTopRequest(args)
	if err != nil {
		return "usage: !top [cdl|challengers] [ar|smg] [limit]", nil
	}
	if req.Limit == 0 {
		req.Limit = defaultTopLimit
	}

	rated, err := d.Service.Top(req)
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("top players: %w", err)
	}

	if len(rated) == 0 {
		return "no players match", nil
	}
	return codeBlock(report.Ranking(rated)), nil
}

func (d *Discord) breakdown(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "usage: !breakdown <name>", nil
	}

	rep, err := d.Service.Player(strings.Join(args, " "))
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get player: %w", err)
	}

	return codeBlock(report.Breakdown(rep)), nil
}

func (d *Discord) pools(context.Context, []string) (string, error) {
	e, err := d.Service.Engine()
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get engine: %w", err)
	}
	return codeBlock(report.Counts(e.Rankings().Counts)), nil
}

func (d *Discord) reload(ctx context.Context, _ []string) (string, error) {
	if err := d.Service.Reload(ctx); err != nil {
		return "", fmt.Errorf("reload: %w", err)
	}
	return "ratings reloaded", nil
}

func (d *Discord) override(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "usage: !override <name> <delta|off>", nil
	}

	name := strings.Join(args[:len(args)-1], " ")
	last := args[len(args)-1]

	if strings.EqualFold(last, "off") {
		if err := d.Service.DeleteOverride(ctx, name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return "no override set", nil
			}
			return "", fmt.Errorf("delete override: %w", err)
		}
		return fmt.Sprintf("override for %s removed", name), nil
	}

	delta, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return "usage: !override <name> <delta|off>", nil
	}

	if err := d.Service.SetOverride(ctx, name, delta); err != nil {
		return "", fmt.Errorf("set override: %w", err)
	}
	return fmt.Sprintf("override for %s set to %+g", name, delta), nil
}

func (d *Discord) teams(context.Context, []string) (string, error) {
	teams, err := d.Service.Teams()
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get teams: %w", err)
	}
	return codeBlock(report.Teams(teams)), nil
}

func (d *Discord) roster(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "usage: !roster <team>", nil
	}

	tr, err := d.Service.Team(args[0])
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get team: %w", err)
	}
	return codeBlock(report.Roster(tr)), nil
}

func (d *Discord) freeAgents(_ context.Context, args []string) (string, error) {
	req, err := store.ParseTopRequest(args)
	if err != nil {
		return "usage: !freeagents [cdl|challengers] [ar|smg] [limit]", nil
	}
	if req.Limit == 0 {
		req.Limit = defaultTopLimit
	}

	agents, err := d.Service.FreeAgents(req)
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("free agents: %w", err)
	}

	if len(agents) == 0 {
		return "no free agents match", nil
	}
	return codeBlock(report.Ranking(agents)), nil
}

func (d *Discord) assign(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "usage: !assign <team> <slot> <name>", nil
	}

	slot, err := strconv.Atoi(args[1])
	if err != nil {
		return "usage: !assign <team> <slot> <name>", nil
	}

	name := strings.Join(args[2:], " ")
	if err := d.Service.Assign(ctx, args[0], slot, name); err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("assign player: %w", err)
	}
	return fmt.Sprintf("%s assigned to %s slot %d", name, strings.ToLower(args[0]), slot), nil
}

func (d *Discord) release(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "usage: !release <team> <slot>", nil
	}

	slot, err := strconv.Atoi(args[1])
	if err != nil {
		return "usage: !release <team> <slot>", nil
	}

	if err := d.Service.Release(ctx, args[0], slot); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "slot is empty", nil
		}
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("release slot: %w", err)
	}
	return fmt.Sprintf("%s slot %d released", strings.ToLower(args[0]), slot), nil
}

func (d *Discord) powerRank(ctx context.Context, args []string) (string, error) {
	const usage = "usage: !powerrank <team> <rank|off>"
	if len(args) != 2 {
		return usage, nil
	}
	team := strings.ToLower(args[0])

	if strings.EqualFold(args[1], "off") {
		if err := d.Service.ClearPowerRank(ctx, team); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return "no power rank set", nil
			}
			if reply, ok := userError(err); ok {
				return reply, nil
			}
			return "", fmt.Errorf("clear power rank: %w", err)
		}
		return fmt.Sprintf("%s power rank removed", team), nil
	}

	rank, err := strconv.Atoi(args[1])
	if err != nil || rank < 1 {
		return usage, nil
	}

	if err := d.Service.SetPowerRank(ctx, team, rank); err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("set power rank: %w", err)
	}
	return fmt.Sprintf("%s power rank set to %d", team, rank), nil
}

func (d *Discord) isAdmin(discordID string) bool {
	for _, id := range d.AdminIDs {
		if discordID == id {
			return true
		}
	}
	return false
}

func (d *Discord) allowedChannel(channelID string) bool {
	if len(d.ChannelIDs) == 0 {
		return true
	}
	for _, id := range d.ChannelIDs {
		if channelID == id {
			return true
		}
	}
	return false
}

func (d *Discord) ping(context.Context, []string) (string, error) { return "pong!", nil }

func (d *Discord) help(context.Context, []string) (reply string, err error) {
	return `
!rating <name> - player rating
!top [cdl|challengers] [ar|smg] [limit] - best rated players
!breakdown <name> - per stat ranks and ratings of a player
!pools - players per pool and role
!teams - team ratings
!roster <team> - team players, stat averages and ranks
!freeagents [cdl|challengers] [ar|smg] [limit] - best players without a team
!reload - admins only, rebuild ratings from the store
!override <name> <delta|off> - admins only, adjust a player's rating
!assign <team> <slot> <name> - admins only, put a player on a team
!release <team> <slot> - admins only, empty a roster slot
!powerrank <team> <rank|off> - admins only, order teams by hand
!ping - pong!
!help - this message
	`, nil
}

// userError maps errors caused by the request to a reply.
func userError(err error) (string, bool) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "player not found", true
	case errors.Is(err, store.ErrNoData):
		return "no ratings loaded yet", true
	case errors.Is(err, store.ErrUnknownTeam):
		return "unknown team, one of: " + teamIDs(), true
	case errors.Is(err, store.ErrBadSlot):
		return fmt.Sprintf("slot must be 1 to %d", rating.RosterSize), true
	case errors.Is(err, store.ErrRostered):
		return "player is already on a roster", true
	default:
		return "", false
	}
}

func teamIDs() string {
	ids := make([]string, 0, len(rating.CDLTeams))
	for _, t := range rating.CDLTeams {
		ids = append(ids, t.ID)
	}
	return strings.Join(ids, ", ")
}

// codeBlock wraps the text into a code block, cut to fit in a message.
func codeBlock(s string) string {
	const wrap = len("```\n") + len("\n```")
	if len(s)+wrap > maxMessageLen {
		cut := maxMessageLen - wrap - len("\n...")
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "\n..."
	}
	return "```\n" + s + "\n```"
}
