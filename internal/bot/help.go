package bot

import "context"

func resumeHelpCommand() *Command {
	return &Command{
		Name:          "resume-help",
		Description:   "Show how to use the ATS resume optimizer",
		PrefixAllowed: true,
		Handler:       handleResumeHelp,
	}
}

func handleResumeHelp(ctx context.Context, app *App, inv *Invocation) {
	app.send(ctx, app.Logger, inv.Responder, helpMessage(app.CommandPrefix))
}
