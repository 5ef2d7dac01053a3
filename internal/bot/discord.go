package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	presence         = "resumes | /optimize-resume"
	syncAttempts     = 3
	syncRetryBackoff = time.Second
)

// Bot connects the command registry to the Discord gateway.
type Bot struct {
	app      *App
	registry *Registry
	session  *discordgo.Session
	logger   *zap.Logger
}

func NewBot(token string, app *App, registry *Registry) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		app:      app,
		registry: registry,
		session:  s,
		logger:   app.Logger.Named("discord"),
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteractionCreate)
	s.AddHandler(b.onMessageCreate)
	return b, nil
}

// Run holds the gateway connection open until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening discord gateway: %w", err)
	}
	<-ctx.Done()
	b.logger.Info("closing discord gateway")
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in",
		zap.String("user", r.User.Username),
		zap.String("user_id", r.User.ID),
		zap.Int("guilds", len(r.Guilds)),
		zap.String("webhook_url", b.app.Webhook.URL()),
	)

	synced, err := retry(syncAttempts, syncRetryBackoff, func() ([]*discordgo.ApplicationCommand, error) {
		return s.ApplicationCommandBulkOverwrite(r.User.ID, b.app.GuildID, b.registry.ApplicationCommands())
	})
	if err != nil {
		b.logger.Error("failed to sync commands", zap.Error(err))
	} else {
		b.logger.Info("synced commands", zap.Int("count", len(synced)), zap.String("guild_id", b.app.GuildID))
	}

	if err := s.UpdateWatchStatus(0, presence); err != nil {
		b.logger.Warn("failed to set presence", zap.Error(err))
	}
	b.logger.Info("bot is ready")
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	cmd, ok := b.registry.Lookup(data.Name)
	if !ok {
		b.logger.Warn("received unknown command", zap.String("command", data.Name))
		return
	}

	inv := interactionInvocation(i.Interaction, data)
	inv.Responder = newInteractionResponder(s, i.Interaction, cmd.Ephemeral)
	b.registry.Dispatch(context.Background(), b.app, inv)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	name, ok := parsePrefixCommand(m.Content, b.app.CommandPrefix)
	if !ok {
		return
	}
	cmd, ok := b.registry.Lookup(name)
	if !ok || !cmd.PrefixAllowed {
		return
	}

	admin := false
	if cmd.AdminOnly {
		perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			b.logger.Warn("failed to resolve caller permissions", zap.String("user_id", m.Author.ID), zap.Error(err))
		}
		admin = err == nil && perms&discordgo.PermissionAdministrator != 0
	}

	b.registry.Dispatch(context.Background(), b.app, &Invocation{
		Command:   name,
		Caller:    Caller{ID: m.Author.ID, Name: m.Author.Username, Admin: admin},
		ChannelID: m.ChannelID,
		Responder: newMessageResponder(s, m.ChannelID),
	})
}

// interactionInvocation flattens a slash command's options and resolved
// attachments into an Invocation. The Responder is left for the caller.
func interactionInvocation(i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) *Invocation {
	inv := &Invocation{
		Command:     data.Name,
		Options:     make(map[string]string),
		Attachments: make(map[string]*Attachment),
		ChannelID:   i.ChannelID,
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.Caller = Caller{
			ID:    i.Member.User.ID,
			Name:  i.Member.User.Username,
			Admin: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		}
	case i.User != nil:
		inv.Caller = Caller{ID: i.User.ID, Name: i.User.Username}
	}

	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionAttachment:
			id, _ := opt.Value.(string)
			if data.Resolved == nil {
				continue
			}
			if a, ok := data.Resolved.Attachments[id]; ok && a != nil {
				inv.Attachments[opt.Name] = &Attachment{
					ID:       a.ID,
					Filename: a.Filename,
					URL:      a.URL,
					Size:     a.Size,
				}
			}
		case discordgo.ApplicationCommandOptionString:
			inv.Options[opt.Name] = opt.StringValue()
		default:
			inv.Options[opt.Name] = fmt.Sprint(opt.Value)
		}
	}
	return inv
}

// parsePrefixCommand returns the command name of a message such as
// "!resume-help extra words".
func parsePrefixCommand(content, prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(content), prefix)
	if !ok {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 || !strings.HasPrefix(rest, fields[0]) {
		return "", false
	}
	return fields[0], true
}
