package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammadolammi/resumebot/internal/extract"
	"github.com/muhammadolammi/resumebot/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text the bot would extract from a resume file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	level := logLevel
	if level == "" {
		level = "warn"
	}
	logger := logging.New(level)
	defer func() { _ = logger.Sync() }()

	res := extract.New(logger).Extract(data, filepath.Base(args[0]))
	logger.Debug("extracted resume",
		zap.String("method", string(res.Method)),
		zap.Bool("fallback", res.Fallback),
		zap.Int("chars", len(res.Text)),
	)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
