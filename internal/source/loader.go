package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimroute/internal/cache"
	"github.com/ppiankov/claimroute/internal/model"
)

// StdinRef is the reference that reads the document from standard input
const StdinRef = "-"

// Document kinds
const (
	KindText = "text"
	KindHTML = "html"
	KindPDF  = "pdf"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Document is a source turned into plain text
type Document struct {
	Ref       string
	Text      string
	Kind      string
	FromCache bool
}

// HostLimiter paces requests per remote host
type HostLimiter interface {
	WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error
}

// Loader resolves source references (files, stdin, URLs) into text
type Loader struct {
	fetcher  *Fetcher
	robots   *RobotsChecker
	cache    cache.Store
	cacheTTL time.Duration
	limiter  HostLimiter
	stdin    io.Reader
	maxBytes int64
	logger   *zap.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithCache caches remote documents in store
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = store
		l.cacheTTL = ttl
	}
}

// WithLimiter paces remote fetches per host
func WithLimiter(limiter HostLimiter) Option {
	return func(l *Loader) { l.limiter = limiter }
}

// WithRobots enables robots.txt checks for remote documents
func WithRobots(robots *RobotsChecker) Option {
	return func(l *Loader) { l.robots = robots }
}

// WithStdin replaces os.Stdin as the source for "-"
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader from HTTP settings.
// Robots checks follow cfg.RespectRobots unless WithRobots overrides them.
func NewLoader(cfg model.HTTPConfig, opts ...Option) *Loader {
	fetcher := NewFetcher(cfg)

	l := &Loader{
		fetcher:  fetcher,
		stdin:    os.Stdin,
		maxBytes: fetcher.maxBytes,
		logger:   zap.NewNop(),
	}
	if cfg.RespectRobots {
		l.robots = NewRobotsChecker(cfg.UserAgent, fetcher.Client(), cfg.Timeout)
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the referenced document. Failures are *model.SourceError values.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, model.ErrInputMissing
	}

	var (
		doc *Document
		err error
	)
	switch {
	case ref == StdinRef:
		doc, err = l.loadStdin()
	case isRemote(ref):
		doc, err = l.loadRemote(ctx, ref)
	default:
		doc, err = l.loadFile(ref)
	}
	if err != nil {
		return nil, &model.SourceError{Ref: ref, Err: err}
	}

	l.logger.Debug("source loaded",
		zap.String("ref", ref),
		zap.String("kind", doc.Kind),
		zap.Int("bytes", len(doc.Text)),
		zap.Bool("cached", doc.FromCache),
	)
	return doc, nil
}

func (l *Loader) loadStdin() (*Document, error) {
	data, err := l.readLimited(l.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return toDocument(StdinRef, data, "")
}

func (l *Loader) loadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := l.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return toDocument(path, data, "")
}

func (l *Loader) loadRemote(ctx context.Context, ref string) (*Document, error) {
	key := cache.DocumentKey(ref)
	if l.cache != nil {
		if data, ok := l.cache.Get(key); ok {
			l.logger.Debug("source cache hit", zap.String("ref", ref))
			return &Document{Ref: ref, Text: string(data), Kind: KindText, FromCache: true}, nil
		}
	}

	var delay time.Duration
	if l.robots != nil {
		allowed, crawlDelay, err := l.robots.CanFetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrRobotsDisallowed
		}
		delay = crawlDelay
	}

	if l.limiter != nil {
		if err := l.limiter.WaitWithDelay(ctx, ref, delay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	l.logger.Debug("fetching source", zap.String("ref", ref))
	result, err := l.fetcher.FetchWithRetry(ctx, ref)
	if err != nil {
		return nil, err
	}

	doc, err := toDocument(result.FinalURL, result.Body, result.ContentType)
	if err != nil {
		return nil, err
	}
	doc.Ref = ref

	if l.cache != nil {
		if err := l.cache.Set(key, []byte(doc.Text), l.cacheTTL); err != nil {
			l.logger.Warn("source cache write failed", zap.String("ref", ref), zap.Error(err))
		}
	}
	return doc, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

// toDocument picks a converter from the content type, falling back to the
// file extension and finally to sniffing the content
func toDocument(ref string, data []byte, contentType string) (*Document, error) {
	switch kind := detectKind(ref, data, contentType); kind {
	case KindPDF:
		// A .pdf upload that is really plain text is read as text
		if !isPDF(data) {
			return textDocument(ref, data), nil
		}
		text, err := PDFText(data)
		if err != nil {
			return nil, err
		}
		return &Document{Ref: ref, Text: text, Kind: KindPDF}, nil
	case KindHTML:
		text, err := VisibleText(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return &Document{Ref: ref, Text: text, Kind: KindHTML}, nil
	default:
		return textDocument(ref, data), nil
	}
}

func textDocument(ref string, data []byte) *Document {
	return &Document{Ref: ref, Text: strings.ToValidUTF8(string(data), "\uFFFD"), Kind: KindText}
}

func detectKind(ref string, data []byte, contentType string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			switch {
			case mediaType == "application/pdf":
				return KindPDF
			case mediaType == "text/html" || mediaType == "application/xhtml+xml":
				return KindHTML
			case strings.HasPrefix(mediaType, "text/"):
				return KindText
			}
		}
	}

	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".txt", ".text":
		return KindText
	}

	if isPDF(data) {
		return KindPDF
	}
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") {
		return KindHTML
	}
	return KindText
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
