// Package bot wires the resume optimizer's chat commands to validation, text
// extraction and the workflow webhook, and renders the replies.
package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/muhammadolammi/resumebot/internal/config"
	"github.com/muhammadolammi/resumebot/internal/events"
	"github.com/muhammadolammi/resumebot/internal/extract"
	"github.com/muhammadolammi/resumebot/internal/metrics"
	"github.com/muhammadolammi/resumebot/internal/webhook"
	"go.uber.org/zap"
)

const attachmentDownloadTimeout = time.Minute

type Submitter interface {
	Submit(ctx context.Context, payload webhook.Payload) (*webhook.Result, error)
	Ping(ctx context.Context) (*webhook.Result, error)
	URL() string
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// App is built once at startup and shared read-only by every handler.
type App struct {
	Logger    *zap.Logger
	Webhook   Submitter
	Files     Fetcher
	Extractor *extract.Extractor
	Events    events.Publisher
	Metrics   *metrics.Metrics

	CommandPrefix string
	GuildID       string
}

func NewApp(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, publisher events.Publisher) *App {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &App{
		Logger: logger,
		Webhook: webhook.NewClient(cfg.WebhookURL,
			webhook.WithHTTPClient(&http.Client{Timeout: cfg.WebhookTimeout}),
			webhook.WithLogger(logger),
			webhook.WithObserver(m.ObserveWebhook),
		),
		Files: NewHTTPFetcher(&http.Client{Timeout: attachmentDownloadTimeout}, cfg.MaxAttachmentBytes),
		Extractor: extract.New(logger, extract.WithObserver(func(r extract.Result) {
			m.IncExtraction(string(r.Method), r.Fallback)
		})),
		Events:        publisher,
		Metrics:       m,
		CommandPrefix: cfg.CommandPrefix,
		GuildID:       cfg.GuildID,
	}
}

func (a *App) publish(ctx context.Context, logger *zap.Logger, update events.Update) {
	if a.Events == nil {
		return
	}
	if err := a.Events.Publish(ctx, update); err != nil {
		logger.Warn("failed to publish update", zap.String("status", string(update.Status)), zap.Error(err))
	}
}

// send delivers a reply; a failure to reply is only logged since there is
// nobody left to tell.
func (a *App) send(ctx context.Context, logger *zap.Logger, r Responder, msg *Message) {
	if err := r.Send(ctx, msg); err != nil {
		logger.Error("failed to send reply", zap.Error(err))
	}
}
