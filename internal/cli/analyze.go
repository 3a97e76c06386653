package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/telemetry"
)

var (
	errNoInput      = errors.New("provide --file or --text")
	errNoResumeText = errors.New("could not extract resume text")
)

type analyzeFlags struct {
	file    string
	text    string
	job     string
	jobFile string
}

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	var flags analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a local résumé and print the JSON result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, config.LoadWith(v), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "résumé document (PDF or DOCX)")
	cmd.Flags().StringVarP(&flags.text, "text", "t", "", "résumé text, used when the file yields none")
	cmd.Flags().StringVar(&flags.job, "job", "", "job description text")
	cmd.Flags().StringVar(&flags.jobFile, "job-file", "", "file holding the job description")
	cmd.MarkFlagsMutuallyExclusive("job", "job-file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg config.Config, flags analyzeFlags) error {
	if flags.file == "" && flags.text == "" {
		return errNoInput
	}

	logger, err := telemetry.NewTo("stderr", cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	jobText := flags.job
	if flags.jobFile != "" {
		raw, err := os.ReadFile(flags.jobFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jobText = string(raw)
	}

	ctx := cmd.Context()
	app, err := bootstrap.Build(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}

	resumeText := strings.TrimSpace(flags.text)
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}
		extracted, stage := app.Extractor.ExtractWithStage(ctx, data)
		logger.Info("analyze.extracted", zap.String("stage", stage), zap.Int("chars", len(extracted)))
		if extracted != "" {
			resumeText = extracted
		}
	}
	if resumeText == "" {
		return errNoResumeText
	}

	result := app.Analyzer.Analyze(ctx, resumeText, strings.TrimSpace(jobText))
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
