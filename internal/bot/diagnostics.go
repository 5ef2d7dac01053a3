package bot

import (
	"context"

	"go.uber.org/zap"
)

func testWebhookCommand() *Command {
	return &Command{
		Name:          "test-webhook",
		Description:   "Test webhook connectivity (admin only)",
		AdminOnly:     true,
		Ephemeral:     true,
		PrefixAllowed: true,
		Handler:       handleTestWebhook,
	}
}

// handleTestWebhook posts the fixed probe payload and reports what came back.
func handleTestWebhook(ctx context.Context, app *App, inv *Invocation) {
	logger := app.Logger.With(zap.String("command", inv.Command), zap.String("user_id", inv.Caller.ID))

	if err := inv.Responder.Defer(ctx); err != nil {
		logger.Warn("failed to acknowledge interaction, abandoning request", zap.Error(err))
		return
	}

	res, err := app.Webhook.Ping(ctx)
	if err != nil {
		logger.Warn("webhook test failed", zap.Error(err))
		app.send(ctx, logger, inv.Responder, webhookTestFailedMessage(err))
		return
	}
	logger.Info("webhook test completed", zap.Int("status", res.StatusCode))
	app.send(ctx, logger, inv.Responder, webhookTestMessage(app.Webhook.URL(), res))
}
