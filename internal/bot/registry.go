package bot

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, app *App, inv *Invocation)

// Command is one registry entry: a handler plus the parameter schema
// advertised to the chat platform.
type Command struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption

	// AdminOnly commands are rejected for callers without the administrator
	// permission.
	AdminOnly bool
	// Ephemeral replies are only visible to the caller.
	Ephemeral bool
	// PrefixAllowed commands can also be run as "<prefix><name>" text messages.
	PrefixAllowed bool

	Handler HandlerFunc
}

func (c *Command) ApplicationCommand() *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.AdminOnly {
		perms := int64(discordgo.PermissionAdministrator)
		ac.DefaultMemberPermissions = &perms
	}
	return ac
}

// Registry is populated before the gateway connects and is read-only after.
type Registry struct {
	commands map[string]*Command
	names    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// DefaultRegistry holds the resume optimizer's commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(optimizeResumeCommand(), resumeHelpCommand(), testWebhookCommand())
	return r
}

func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" || cmd.Handler == nil {
		return fmt.Errorf("command %q needs a name and a handler", cmd.Name)
	}
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %q already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	r.names = append(r.names, cmd.Name)
	return nil
}

func (r *Registry) MustRegister(cmds ...*Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ApplicationCommands returns the slash command definitions in registration order.
func (r *Registry) ApplicationCommands() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.commands[name].ApplicationCommand())
	}
	return out
}

// Dispatch runs the named command. Unknown commands are ignored and reported
// as false. A panicking handler is logged and answered with the generic error
// reply so one bad request never takes the process down.
func (r *Registry) Dispatch(ctx context.Context, app *App, inv *Invocation) bool {
	cmd, ok := r.Lookup(inv.Command)
	if !ok {
		return false
	}

	logger := app.Logger.With(
		zap.String("command", cmd.Name),
		zap.String("user_id", inv.Caller.ID),
		zap.String("channel_id", inv.ChannelID),
	)

	if cmd.AdminOnly && !inv.Caller.Admin {
		logger.Info("rejected command from non-admin caller")
		app.send(ctx, logger, inv.Responder, permissionDeniedMessage())
		return true
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("command handler panicked",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			app.send(ctx, logger, inv.Responder, unexpectedErrorMessage(fmt.Errorf("%v", rec)))
		}
	}()

	cmd.Handler(ctx, app, inv)
	return true
}
