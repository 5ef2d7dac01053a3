package bot

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/muhammadolammi/resumebot/internal/events"
	"github.com/muhammadolammi/resumebot/internal/metrics"
	"github.com/muhammadolammi/resumebot/internal/validation"
	"go.uber.org/zap"
)

const (
	optionResume         = "resume"
	optionEmail          = "email"
	optionJobDescription = "job_description"
)

func optimizeResumeCommand() *Command {
	return &Command{
		Name:        "optimize-resume",
		Description: "Optimize your resume for ATS systems",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        optionResume,
				Description: "Upload your resume file (txt, pdf, or docx)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionEmail,
				Description: "Your email address to receive the optimized resume",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionJobDescription,
				Description: "The job description you're applying for",
				Required:    true,
			},
		},
		Ephemeral: true,
		Handler:   handleOptimizeResume,
	}
}

func handleOptimizeResume(ctx context.Context, app *App, inv *Invocation) {
	logger := app.Logger.With(zap.String("command", inv.Command), zap.String("user_id", inv.Caller.ID))

	// The acknowledgment deadline is short; nothing else may run before it.
	if err := inv.Responder.Defer(ctx); err != nil {
		logger.Warn("failed to acknowledge interaction, abandoning request", zap.Error(err))
		return
	}

	sub, err := newSubmission(inv)
	if err != nil {
		var missing *missingArgumentError
		if errors.As(err, &missing) {
			app.send(ctx, logger, inv.Responder, missingArgumentMessage(missing.name))
			return
		}
		app.send(ctx, logger, inv.Responder, unexpectedErrorMessage(err))
		return
	}

	logger = logger.With(
		zap.String("request_id", sub.ID.String()),
		zap.String("channel_id", sub.ChannelID),
	)
	app.publish(ctx, logger, events.Update{
		SubmissionID: sub.ID,
		Status:       events.StatusReceived,
		Message:      "submission received",
		UserID:       sub.UserID,
	})

	if err := app.optimizeResume(ctx, logger, sub, inv.Responder); err != nil {
		logger.Error("error processing resume", zap.Error(err))
		app.Metrics.IncSubmission(metrics.OutcomeFailed)
		app.publish(ctx, logger, events.Update{
			SubmissionID: sub.ID,
			Status:       events.StatusFailed,
			Message:      "resume processing failed",
			UserID:       sub.UserID,
		})
		app.send(ctx, logger, inv.Responder, unexpectedErrorMessage(err))
	}
}

// optimizeResume runs validation, download, extraction and the webhook call.
// Expected outcomes (rejections, webhook error statuses) are answered here;
// only unexpected failures are returned.
func (a *App) optimizeResume(ctx context.Context, logger *zap.Logger, sub *Submission, r Responder) error {
	outcome := validation.Validate(sub.Resume.Filename, sub.Email, sub.JobDescription)
	if !outcome.OK() {
		logger.Info("submission rejected", zap.String("reason", string(outcome.Reason)))
		a.Metrics.IncSubmission("rejected_" + string(outcome.Reason))
		a.publish(ctx, logger, events.Update{
			SubmissionID: sub.ID,
			Status:       events.StatusRejected,
			Message:      string(outcome.Reason),
			UserID:       sub.UserID,
		})
		a.send(ctx, logger, r, &Message{Content: outcome.Message()})
		return nil
	}

	if err := r.Send(ctx, processingMessage()); err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}
	a.publish(ctx, logger, events.Update{
		SubmissionID: sub.ID,
		Status:       events.StatusProcessing,
		Message:      "resume optimization started",
		UserID:       sub.UserID,
	})

	data, err := a.Files.Fetch(ctx, sub.Resume.URL)
	if err != nil {
		return fmt.Errorf("failed to download resume: %w", err)
	}
	extracted := a.Extractor.Extract(data, sub.Resume.Filename)

	logger.Info("sending resume to webhook",
		zap.String("webhook_url", a.Webhook.URL()),
		zap.String("filename", sub.Resume.Filename),
		zap.String("extraction_method", string(extracted.Method)),
		zap.Int("resume_chars", utf8.RuneCountInString(extracted.Text)),
	)

	// The webhook call always runs to completion once started.
	result, err := a.Webhook.Submit(context.WithoutCancel(ctx), sub.Payload(extracted.Text))
	if err != nil {
		return err
	}

	if !result.OK() {
		logger.Warn("webhook returned an error status", zap.Int("status", result.StatusCode))
		a.Metrics.IncSubmission(metrics.OutcomeWebhookError)
		a.publish(ctx, logger, events.Update{
			SubmissionID: sub.ID,
			Status:       events.StatusFailed,
			Message:      fmt.Sprintf("webhook returned status %d", result.StatusCode),
			UserID:       sub.UserID,
		})
		a.send(ctx, logger, r, webhookErrorMessage(result))
		return nil
	}

	a.Metrics.IncSubmission(metrics.OutcomeCompleted)
	a.publish(ctx, logger, events.Update{
		SubmissionID: sub.ID,
		Status:       events.StatusCompleted,
		Message:      "resume optimization completed",
		UserID:       sub.UserID,
		ATSScore:     result.Score,
	})
	a.send(ctx, logger, r, successMessage(sub.Email, result.Score))
	return nil
}
