package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimroute/internal/cache"
	"github.com/ppiankov/claimroute/internal/classify"
	"github.com/ppiankov/claimroute/internal/compliance"
	"github.com/ppiankov/claimroute/internal/extract"
	"github.com/ppiankov/claimroute/internal/llm"
	"github.com/ppiankov/claimroute/internal/metrics"
	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/route"
	"github.com/ppiankov/claimroute/internal/source"
	"github.com/ppiankov/claimroute/internal/validate"
	"github.com/ppiankov/claimroute/internal/worker"
)

// Pipeline orchestrates extraction, validation, classification and routing.
// It holds only read-only collaborators and is safe for concurrent use.
type Pipeline struct {
	table      *compliance.Table
	classifier *classify.Classifier
	validator  *validate.Validator
	extractor  *extract.Extractor
	loader     *source.Loader
	summarizer *llm.Summarizer // Optional, nil when disabled
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTable replaces the embedded compliance table
func WithTable(t *compliance.Table) Option {
	return func(p *Pipeline) { p.table = t }
}

// WithClassifier replaces the default keyword classifier
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithValidator replaces the default mandatory-field validator
func WithValidator(v *validate.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

// WithLoader sets the source loader used by ProcessRef
func WithLoader(l *source.Loader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithSummarizer enables adjuster summaries
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// WithMetrics records routing metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithClock overrides the processing timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline with the embedded tables and no remote access
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.table == nil {
		p.table = compliance.Default()
	}
	if p.classifier == nil {
		p.classifier = classify.New()
	}
	if p.validator == nil {
		p.validator = validate.New()
	}
	if p.loader == nil {
		p.loader = source.NewLoader(model.DefaultConfig().HTTP, source.WithLogger(p.logger))
	}
	p.extractor = extract.NewExtractor(p.table, p.classifier)

	return p
}

// NewFromConfig wires the full stack from configuration: compliance table,
// cached rate-limited source loader and the optional summarizer
func NewFromConfig(cfg *model.Config, logger *zap.Logger, m *metrics.Metrics) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table := compliance.Default()
	if cfg.Compliance.TableFile != "" {
		t, err := compliance.LoadFile(cfg.Compliance.TableFile)
		if err != nil {
			return nil, fmt.Errorf("load compliance table: %w", err)
		}
		table = t
	}

	loaderOpts := []source.Option{
		source.WithLogger(logger.Named("source")),
		source.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
	}
	if store := cache.New(cfg.Cache); store != nil {
		loaderOpts = append(loaderOpts, source.WithCache(store, cfg.Cache.DiskTTL))
	}

	opts := []Option{
		WithTable(table),
		WithLoader(source.NewLoader(cfg.HTTP, loaderOpts...)),
		WithMetrics(m),
		WithLogger(logger),
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			return nil, fmt.Errorf("init LLM provider: %w", err)
		}
		opts = append(opts, WithSummarizer(s))
	}

	return New(opts...), nil
}

// Table returns the compliance table in use
func (p *Pipeline) Table() *compliance.Table {
	return p.table
}

// Process routes the claim in text. It is pure apart from the timestamp:
// each call builds its own record and routing engine for cfg's threshold.
func (p *Pipeline) Process(text string, cfg model.RoutingConfig) (*model.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrInputMissing
	}

	start := time.Now()

	rec := p.extractor.Extract(text)
	missing := p.validator.FindMissing(rec)
	cls := p.classifier.Classify(rec)
	decision := route.New(cfg.Threshold()).Route(rec, missing, cls)

	result := p.assemble(rec, missing, cls, decision)
	elapsed := time.Since(start)

	p.metrics.ObserveClaim(result, elapsed)
	p.logger.Info("claim routed",
		zap.String("route", string(decision.Queue)),
		zap.String("rule", decision.Rule),
		zap.Int("missing", len(missing)),
		zap.Bool("fraud", cls.FraudDetected),
		zap.Bool("injury", cls.InjuryDetected),
		zap.String("state", rec.State),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

// ProcessText routes text and attaches the adjuster summary when enabled
func (p *Pipeline) ProcessText(ctx context.Context, text string, cfg model.RoutingConfig) (*model.Result, error) {
	result, err := p.Process(text, cfg)
	if err != nil {
		return nil, err
	}
	p.summarize(ctx, result)
	return result, nil
}

// ProcessRef loads a file, stdin ("-") or URL and routes its claim
func (p *Pipeline) ProcessRef(ctx context.Context, ref string, cfg model.RoutingConfig) (*model.Result, error) {
	doc, err := p.loader.Load(ctx, ref)
	if err != nil {
		p.metrics.ObserveSourceError(refKind(ref))
		return nil, err
	}
	return p.ProcessText(ctx, doc.Text, cfg)
}

// summarize runs after routing and never changes the result's route.
// A failed summary is logged, not returned.
func (p *Pipeline) summarize(ctx context.Context, result *model.Result) {
	if !p.summarizer.IsEnabled() {
		return
	}

	summary, err := p.summarizer.Summarize(ctx, result)
	if err != nil {
		p.metrics.ObserveSummary("error")
		p.logger.Warn("adjuster summary failed",
			zap.String("provider", p.summarizer.ProviderName()),
			zap.Error(err),
		)
		return
	}
	p.metrics.ObserveSummary("ok")
	result.AdjusterSummary = summary
}

func refKind(ref string) string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	switch {
	case ref == source.StdinRef:
		return "stdin"
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return "url"
	default:
		return "file"
	}
}
