package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/pipeline"
	"github.com/ppiankov/claimroute/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchFlags  runFlags
	concurrency int
	outputDir   string
	summaryPath string
	writeMD     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Route many FNOL documents in parallel",
	Long: `Batch reads document references from a file (one per line, # for comments)
and routes them concurrently with the same threshold:
- Each reference may be a file path or an http(s) URL
- Remote hosts are rate limited and documents cached
- One JSON result per document is written to the output directory
- A run summary with counts per route is printed at the end

Example:
  claimroute batch claims.txt
  claimroute batch claims.txt --concurrency 8 --output-dir ./routed --md
  claimroute batch claims.txt --summary summary.json --threshold 15000`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimroute-results", "output directory for per-document results")
	batchCmd.Flags().StringVar(&summaryPath, "summary", pipeline.StdoutPath, `run summary JSON path ("-" for stdout)`)
	batchCmd.Flags().BoolVar(&writeMD, "md", false, "also write a Markdown report per document")
	addRunFlags(batchCmd, &batchFlags)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	cfg := appConfig
	if err := batchFlags.apply(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchFlags.timeout)
	defer cancel()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewFromConfig(cfg, logger, nil)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, logger.Named("batch"))
	results, summary, err := processor.ProcessFile(ctx, file, cfg.Routing)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output).WithStdout(cmd.OutOrStdout())
	stderr := cmd.ErrOrStderr()
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Ref, r.Error)
			continue
		}
		if err := writeResult(renderer, r); err != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Ref, err)
			continue
		}
		fmt.Fprint(stderr, "✓ ")
		renderer.RenderSummary(stderr, r.Ref, r.Result)
	}

	fmt.Fprintf(stderr, "\n%d documents: %d routed, %d failed\n", summary.Total, summary.Succeeded, summary.Failed)
	for _, q := range model.Queues {
		if n := summary.ByRoute[q]; n > 0 {
			fmt.Fprintf(stderr, "  %-16s %d\n", q, n)
		}
	}

	if err := renderer.RenderJSON(summary, summaryPath); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}

func writeResult(renderer *pipeline.Renderer, r *worker.ClaimResult) error {
	base := filepath.Join(outputDir, resultName(r.Index, r.Ref))
	if err := renderer.RenderJSON(r.Result, base+".json"); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if writeMD {
		if err := renderer.RenderMarkdown(r.Result, base+".md"); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
	}
	return nil
}

// resultName builds a stable, filesystem-safe name from the input position and reference
func resultName(index int, ref string) string {
	name := strings.TrimSuffix(ref, "/")
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	name = strings.TrimSuffix(name, filepath.Ext(name))

	replacer := strings.NewReplacer(
		":", "_", "*", "_", "?", "_", "\"", "_",
		"<", "_", ">", "_", "|", "_", " ", "-",
	)
	name = replacer.Replace(name)
	if runes := []rune(name); len(runes) > 80 {
		name = string(runes[:80])
	}
	if name == "" {
		name = "claim"
	}
	return fmt.Sprintf("%03d-%s", index+1, name)
}
