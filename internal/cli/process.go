package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runFlags are shared by process and batch; only flags the user set override the config
type runFlags struct {
	threshold   float64
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	insecureTLS bool
	llmProvider string
	llmModel    string
}

var (
	processFlags runFlags
	outJSON      string
	outMD        string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file|url|->",
	Short: "Route a single FNOL document",
	Long: `Process reads one first-notice-of-loss document and:
- Extracts policy, incident, party and asset fields
- Lists missing mandatory fields
- Flags fraud keywords and injury indicators
- Recommends a handling queue with its reasoning

The source may be a .txt, HTML or PDF file, an http(s) URL, or "-" for stdin.

Example:
  claimroute process claim.txt
  claimroute process claim.txt --json result.json --md result.md
  claimroute process https://intake.example.com/fnol/123 --threshold 15000
  cat claim.txt | claimroute process -`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&outJSON, "json", pipeline.StdoutPath, `output JSON path ("-" for stdout)`)
	processCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	addRunFlags(processCmd, &processFlags)
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", model.DefaultFastTrackThreshold, "fast-track damage threshold")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "overall timeout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable document cache (force fresh fetch)")
	cmd.Flags().BoolVar(&f.noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&f.insecureTLS, "insecure", false, "skip TLS certificate verification")
	cmd.Flags().StringVar(&f.llmProvider, "llm-provider", "", "adjuster summary provider (openai, ollama)")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", "", "adjuster summary model name")
}

// apply copies explicitly set flags over the loaded configuration
func (f *runFlags) apply(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		if f.threshold <= 0 {
			return fmt.Errorf("--threshold must be positive, got %v", f.threshold)
		}
		cfg.Routing.FastTrackThreshold = f.threshold
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !f.noFooter
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = f.insecureTLS
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = f.llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = f.llmModel
	}
	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	ref := args[0]
	cfg := appConfig
	if err := processFlags.apply(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), processFlags.timeout)
	defer cancel()

	logger.Debug("processing claim",
		zap.String("ref", ref),
		zap.Float64("threshold", cfg.Routing.FastTrackThreshold),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	p, err := pipeline.NewFromConfig(cfg, logger, nil)
	if err != nil {
		return err
	}

	result, err := p.ProcessRef(ctx, ref, cfg.Routing)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output).WithStdout(cmd.OutOrStdout())
	if err := renderer.RenderJSON(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	if outJSON != pipeline.StdoutPath || cfg.Output.Verbose {
		renderer.RenderSummary(os.Stderr, ref, result)
	}
	return nil
}
