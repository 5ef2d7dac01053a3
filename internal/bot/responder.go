package bot

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type Message struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

func (m *Message) embeds() []*discordgo.MessageEmbed {
	if m.Embed == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{m.Embed}
}

// Responder is how a handler talks back to whoever invoked it. Defer must be
// called before any slow work; Send may be called any number of times.
type Responder interface {
	Defer(ctx context.Context) error
	Send(ctx context.Context, msg *Message) error
}

type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	flags       discordgo.MessageFlags

	mu    sync.Mutex
	acked bool
}

func newInteractionResponder(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool) *interactionResponder {
	r := &interactionResponder{session: s, interaction: i}
	if ephemeral {
		r.flags = discordgo.MessageFlagsEphemeral
	}
	return r
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acked {
		return nil
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: r.flags},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	r.acked = true
	return nil
}

func (r *interactionResponder) Send(ctx context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.acked {
		err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: msg.Content,
				Embeds:  msg.embeds(),
				Flags:   r.flags,
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return err
		}
		r.acked = true
		return nil
	}
	_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: msg.Content,
		Embeds:  msg.embeds(),
		Flags:   r.flags,
	}, discordgo.WithContext(ctx))
	return err
}

// messageResponder answers prefixed text commands in the channel they came from.
type messageResponder struct {
	session   *discordgo.Session
	channelID string
}

func newMessageResponder(s *discordgo.Session, channelID string) *messageResponder {
	return &messageResponder{session: s, channelID: channelID}
}

func (r *messageResponder) Defer(ctx context.Context) error {
	return r.session.ChannelTyping(r.channelID, discordgo.WithContext(ctx))
}

func (r *messageResponder) Send(ctx context.Context, msg *Message) error {
	_, err := r.session.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  msg.embeds(),
	}, discordgo.WithContext(ctx))
	return err
}
