package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/internal/metrics"
	"github.com/JonnyWalker81/breathe/backend/internal/models"
	"github.com/JonnyWalker81/breathe/backend/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a JSON file of wellness logs offline",
	Long: `Run the analysis engine over logs read from a file (or stdin with "-")
and print the result as JSON. The input has the same shape as the body of
POST /api/v1/wellness/analyze; flags override its dates and offset.`,
	RunE: runAnalyze,
}

var analyzeFlags struct {
	input    string
	start    string
	end      string
	tzOffset string
	logLevel string
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.input, "input", "i", "-", "Path to the logs JSON file, - for stdin")
	f.StringVar(&analyzeFlags.start, "start", "", "First date of the window (YYYY-MM-DD)")
	f.StringVar(&analyzeFlags.end, "end", "", "Last date of the window (YYYY-MM-DD)")
	f.StringVar(&analyzeFlags.tzOffset, "tz-offset", "", "UTC offset used for day and hour bucketing, e.g. +02:00")
	f.StringVar(&analyzeFlags.logLevel, "log-level", "warn", "Log level written to stderr")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logCfg := logger.ParseConfig(analyzeFlags.logLevel, "text")
	logCfg.Output = cmd.ErrOrStderr()
	logger.SetDefault(logger.NewSlogLogger(logCfg))

	req, err := readAnalyzeRequest(cmd.InOrStdin(), analyzeFlags.input)
	if err != nil {
		return err
	}

	if analyzeFlags.start != "" {
		req.StartDate = analyzeFlags.start
	}
	if analyzeFlags.end != "" {
		req.EndDate = analyzeFlags.end
	}
	if analyzeFlags.tzOffset != "" {
		req.TZOffset = analyzeFlags.tzOffset
	}
	if req.StartDate == "" || req.EndDate == "" {
		return fmt.Errorf("a window is required: set start_date and end_date in the input or pass --start and --end")
	}

	svc := service.NewWellnessService(nil, config.DefaultAnalysisConfig(), metrics.New())
	result, err := svc.AnalyzeLogs(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readAnalyzeRequest(stdin io.Reader, path string) (models.AnalyzeLogsRequest, error) {
	var req models.AnalyzeLogsRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode input: %w", err)
	}
	return req, nil
}
