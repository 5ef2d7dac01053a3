package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/resumebot/internal/webhook"
	"github.com/spf13/cobra"
)

var pingURL string

var pingCmd = &cobra.Command{
	Use:   "ping-webhook",
	Short: "Send the test payload to the n8n webhook and print the reply",
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().StringVar(&pingURL, "url", "", "Webhook URL (overrides N8N_WEBHOOK_URL)")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	url := pingURL
	if url == "" {
		_ = godotenv.Load()
		url = os.Getenv("N8N_WEBHOOK_URL")
	}
	if url == "" {
		return fmt.Errorf("webhook URL is required (set N8N_WEBHOOK_URL or use --url)")
	}

	res, err := webhook.NewClient(url).Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("webhook test failed: %w", err)
	}

	body := webhook.Truncate(res.Body, webhook.PreviewLimit)
	if body == "" {
		body = "Empty"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "URL: %s\n", url)
	fmt.Fprintf(out, "Status: %d\n", res.StatusCode)
	fmt.Fprintf(out, "Response: %s\n", body)
	if !res.OK() {
		return fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return nil
}
