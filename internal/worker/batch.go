package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/claimroute/internal/model"
)

// Processor routes the claim behind a source reference
type Processor interface {
	ProcessRef(ctx context.Context, ref string, cfg model.RoutingConfig) (*model.Result, error)
}

// ClaimJob routes one document
type ClaimJob struct {
	ID        string
	Index     int
	Ref       string
	Config    model.RoutingConfig
	Processor Processor
}

// Execute runs the job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	start := time.Now()
	result, err := j.Processor.ProcessRef(ctx, j.Ref, j.Config)
	return &ClaimResult{
		JobID:    j.ID,
		Index:    j.Index,
		Ref:      j.Ref,
		Result:   result,
		Error:    err,
		Duration: time.Since(start),
	}
}

// ClaimResult is the outcome of a ClaimJob
type ClaimResult struct {
	JobID    string
	Index    int
	Ref      string
	Result   *model.Result
	Error    error
	Duration time.Duration
}

// Err returns the processing error, if any
func (r *ClaimResult) Err() error {
	return r.Error
}

// Summary counts the outcomes of a batch run
type Summary struct {
	RunID     string              `json:"runId"`
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	ByRoute   map[model.Queue]int `json:"byRoute"`
	Duration  time.Duration       `json:"durationNs"`
}

// BatchProcessor routes many documents concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a batch processor. A nil logger is replaced with a no-op one.
func NewBatchProcessor(processor Processor, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessRefs routes every reference with the same routing settings.
// Results come back in input order.
func (b *BatchProcessor) ProcessRefs(ctx context.Context, refs []string, cfg model.RoutingConfig) ([]*ClaimResult, *Summary) {
	runID := uuid.NewString()
	start := time.Now()

	if len(refs) == 0 {
		return []*ClaimResult{}, Summarize(runID, nil, 0)
	}

	b.logger.Info("batch started",
		zap.String("run_id", runID),
		zap.Int("documents", len(refs)),
		zap.Int("workers", b.concurrency),
	)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	submitted := 0
	for i, ref := range refs {
		job := &ClaimJob{
			ID:        uuid.NewString(),
			Index:     i,
			Ref:       ref,
			Config:    cfg,
			Processor: b.processor,
		}
		if !pool.Submit(job) {
			break
		}
		submitted++
	}

	raw := pool.Wait()

	results := make([]*ClaimResult, 0, len(refs))
	done := make(map[int]bool, len(raw))
	for _, r := range raw {
		cr := r.(*ClaimResult)
		done[cr.Index] = true
		results = append(results, cr)
		if cr.Error != nil {
			b.logger.Warn("claim failed", zap.String("ref", cr.Ref), zap.Error(cr.Error))
		}
	}

	// Jobs dropped by cancellation still get a result
	for i, ref := range refs {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		results = append(results, &ClaimResult{Index: i, Ref: ref, Error: err})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	summary := Summarize(runID, results, time.Since(start))
	b.logger.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("submitted", submitted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)
	return results, summary
}

// ProcessFile reads references from a file and routes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string, cfg model.RoutingConfig) ([]*ClaimResult, *Summary, error) {
	refs, err := ReadRefsFromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read refs: %w", err)
	}
	results, summary := b.ProcessRefs(ctx, refs, cfg)
	return results, summary, nil
}

// Summarize counts results per recommended route
func Summarize(runID string, results []*ClaimResult, elapsed time.Duration) *Summary {
	s := &Summary{
		RunID:    runID,
		Total:    len(results),
		ByRoute:  make(map[model.Queue]int),
		Duration: elapsed,
	}
	for _, r := range results {
		if r.Error != nil || r.Result == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.ByRoute[r.Result.RecommendedRoute]++
	}
	return s
}

// ReadRefsFromFile reads one source reference per line.
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadRefsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var refs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			refs = append(refs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return refs, nil
}
