package bot

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/muhammadolammi/resumebot/internal/webhook"
)

const (
	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c

	// errorDetailLimit keeps error text well inside an embed field's 1024 limit.
	errorDetailLimit = 1000
	supportHint      = "Please try again or contact support."
)

func processingMessage() *Message {
	return &Message{Embed: &discordgo.MessageEmbed{
		Title:       "⏳ Processing your resume...",
		Description: "Please wait while we optimize your resume for ATS systems.",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📄 Status", Value: "Resume received\n✉️ Email confirmed\n📝 Job description analyzed"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "This may take 30-60 seconds"},
	}}
}

func successMessage(email string, score *float64) *Message {
	embed := &discordgo.MessageEmbed{
		Title:       "✅ Resume Optimization Complete!",
		Description: fmt.Sprintf("Your optimized resume has been sent to **%s**", email),
		Color:       colorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ATS Resume Optimizer"},
	}
	if score != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📊 ATS Score",
			Value: fmt.Sprintf("**%s%%**", webhook.FormatScore(*score)),
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "📧 Next Steps",
		Value: "Check your email inbox (including spam folder) for the optimized resume PDF with detailed feedback!",
	})
	return &Message{Embed: embed}
}

func webhookErrorMessage(res *webhook.Result) *Message {
	embed := &discordgo.MessageEmbed{
		Title:       "❌ Error processing resume",
		Description: "Something went wrong while processing your resume.",
		Color:       colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: strconv.Itoa(res.StatusCode)},
		},
	}
	if preview := res.Preview(webhook.PreviewLimit); preview != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Response", Value: preview})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Details", Value: supportHint})
	return &Message{Embed: embed}
}

func unexpectedErrorMessage(err error) *Message {
	return &Message{Embed: &discordgo.MessageEmbed{
		Title:       "❌ An error occurred",
		Description: "There was an unexpected error processing your request.",
		Color:       colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Error", Value: webhook.Truncate(err.Error(), errorDetailLimit)},
			{Name: "Action", Value: supportHint},
		},
	}}
}

func webhookTestMessage(url string, res *webhook.Result) *Message {
	color := colorRed
	if res.OK() {
		color = colorGreen
	}
	response := webhook.Truncate(res.Body, errorDetailLimit)
	if response == "" {
		response = "Empty"
	}
	return &Message{Embed: &discordgo.MessageEmbed{
		Title: "🔧 Webhook Test Results",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "URL", Value: url},
			{Name: "Status", Value: strconv.Itoa(res.StatusCode), Inline: true},
			{Name: "Response", Value: response},
		},
	}}
}

func webhookTestFailedMessage(err error) *Message {
	return &Message{Content: "❌ Webhook test failed: " + webhook.Truncate(err.Error(), errorDetailLimit)}
}

func permissionDeniedMessage() *Message {
	return &Message{Content: "❌ You don't have permission to use this command."}
}

func missingArgumentMessage(name string) *Message {
	return &Message{Content: "❌ Missing required argument: " + name}
}

func helpMessage(prefix string) *Message {
	return &Message{Embed: &discordgo.MessageEmbed{
		Title:       "📝 ATS Resume Optimizer - Help",
		Description: "Optimize your resume to pass Applicant Tracking Systems!",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "How to Use (Slash Command)",
				Value: "Use the slash command `/optimize-resume` with:\n" +
					"• **resume**: Upload your resume file (.txt, .pdf, or .docx)\n" +
					"• **email**: Your email address\n" +
					"• **job_description**: The full job description (min 100 chars)\n\n" +
					"Example: `/optimize-resume`",
			},
			{
				Name: "📋 Requirements",
				Value: "• Job description must be at least 100 characters\n" +
					"• Supported formats: .txt, .pdf, .docx\n" +
					"• File size: Under 8MB",
			},
			{
				Name: "✨ What You'll Get",
				Value: "• ATS compatibility score (0-100%)\n" +
					"• Optimized resume tailored to the job\n" +
					"• Detailed strengths and improvement areas\n" +
					"• Professional PDF sent to your email",
			},
			{Name: "⏱️ Processing Time", Value: "Typically 30-60 seconds"},
			{
				Name:  "🔧 Admins",
				Value: fmt.Sprintf("`/test-webhook` or `%stest-webhook` checks the workflow connection.", prefix),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use /optimize-resume to get started!"},
	}}
}
