// ABOUTME: FluencyChecker splits a document, asks the model about each chunk and assembles segments
// ABOUTME: Model calls may run concurrently; line numbers are assigned afterwards in document order
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/harper/fluency-checker/internal/models"
	"github.com/harper/fluency-checker/internal/prompts"
	"github.com/harper/fluency-checker/internal/splitter"
	"golang.org/x/sync/errgroup"
)

// ModelErrorPolicy decides what happens when a model call fails outright
type ModelErrorPolicy int

const (
	// FailOnModelError aborts the analysis with the model call error
	FailOnModelError ModelErrorPolicy = iota
	// DegradeOnModelError records the failure as a degraded segment and keeps going
	DegradeOnModelError
)

// Cache stores verdicts by key so repeated prompts skip the model
type Cache interface {
	Get(ctx context.Context, key string) (models.Verdict, bool, error)
	Put(ctx context.Context, key string, v models.Verdict) error
}

// FluencyChecker is the analysis pipeline
type FluencyChecker struct {
	model       llm.Completer
	splitter    splitter.Splitter
	prompts     prompts.Builder
	loader      Loader
	cache       Cache
	namespace   string
	concurrency int
	policy      ModelErrorPolicy
	log         logger.Logger
}

// Option configures a FluencyChecker
type Option func(*FluencyChecker)

// WithPromptBuilder replaces the default editor prompt
func WithPromptBuilder(b prompts.Builder) Option {
	return func(c *FluencyChecker) {
		c.prompts = b
	}
}

// WithConcurrency sets how many model calls may be in flight at once
func WithConcurrency(n int) Option {
	return func(c *FluencyChecker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithModelErrorPolicy sets the model failure policy
func WithModelErrorPolicy(p ModelErrorPolicy) Option {
	return func(c *FluencyChecker) {
		c.policy = p
	}
}

// WithCache enables the verdict cache. Keys are scoped by namespace, which
// defaults to the model name.
func WithCache(cache Cache, namespace string) Option {
	return func(c *FluencyChecker) {
		c.cache = cache
		c.namespace = namespace
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(c *FluencyChecker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLoader replaces the filesystem loader
func WithLoader(l Loader) Option {
	return func(c *FluencyChecker) {
		if l != nil {
			c.loader = l
		}
	}
}

// NewFluencyChecker creates a checker that judges each chunk with model
func NewFluencyChecker(model llm.Completer, sp splitter.Splitter, opts ...Option) (*FluencyChecker, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if sp == nil {
		return nil, errors.New("splitter is required")
	}

	c := &FluencyChecker{
		model:       model,
		splitter:    sp,
		loader:      OSLoader{},
		concurrency: 1,
		policy:      FailOnModelError,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.prompts == nil {
		b, err := prompts.NewTextBuilder()
		if err != nil {
			return nil, err
		}
		c.prompts = b
	}
	if c.cache != nil && c.namespace == "" {
		c.namespace = llm.ModelName(model)
	}

	return c, nil
}

// Analyze returns one segment per chunk, in document order. It fails only on
// document-level problems, on cancellation, or on a model call error under
// FailOnModelError; unreadable model replies become degraded segments.
func (c *FluencyChecker) Analyze(ctx context.Context, in Input) ([]models.Segment, error) {
	text := in.String()
	if in.IsFile() {
		loaded, err := c.loader.Load(ctx, in.String())
		if err != nil {
			return nil, err
		}
		text = loaded
	}

	chunks, err := c.split(text)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := c.log.With("run", runID)
	log.Info("analysis started", "chunks", len(chunks), "concurrency", c.concurrency)

	verdicts := make([]models.Verdict, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			v, err := c.judge(gctx, log.With("segment", i+1), chunk.Content)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segments := assemble(chunks, verdicts)
	log.Info("analysis finished", "segments", len(segments))
	return segments, nil
}

func (c *FluencyChecker) split(text string) ([]models.Chunk, error) {
	if cs, ok := c.splitter.(splitter.ChunkSplitter); ok {
		chunks, err := cs.Split(text)
		if err != nil {
			return nil, fmt.Errorf("splitting document: %w", err)
		}
		return chunks, nil
	}

	parts, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting document: %w", err)
	}
	chunks := make([]models.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = models.Chunk{Content: p, Lines: models.LineCount(p)}
	}
	return chunks, nil
}

// LineSpan is a 1-based inclusive range of source lines
type LineSpan struct {
	Start, End int
}

// LineSpans assigns each chunk its source lines from a running cursor. A
// chunk with no lines of its own sits on the line where the previous chunk
// ended.
func LineSpans(chunks []models.Chunk) []LineSpan {
	spans := make([]LineSpan, 0, len(chunks))
	cursor := 1

	for _, chunk := range chunks {
		if chunk.Lines <= 0 {
			line := max(cursor-1, 1)
			spans = append(spans, LineSpan{Start: line, End: line})
			continue
		}
		spans = append(spans, LineSpan{Start: cursor, End: cursor + chunk.Lines - 1})
		cursor += chunk.Lines
	}

	return spans
}

func assemble(chunks []models.Chunk, verdicts []models.Verdict) []models.Segment {
	segments := make([]models.Segment, 0, len(chunks))
	for i, span := range LineSpans(chunks) {
		segments = append(segments, models.NewSegment(span.Start, span.End, chunks[i].Content, verdicts[i]))
	}
	return segments
}

func (c *FluencyChecker) judge(ctx context.Context, log logger.Logger, content string) (models.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return models.Verdict{}, err
	}

	prompt, err := c.prompts.Build(content)
	if err != nil {
		return models.Verdict{}, err
	}

	key := ""
	if c.cache != nil {
		key = CacheKey(c.namespace, prompt)
		v, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache lookup failed", "err", err)
		} else if ok {
			log.Debug("cache hit")
			return v, nil
		}
	}

	reply, err := c.model.Complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return models.Verdict{}, ctx.Err()
		}
		var callErr *llm.ModelCallError
		if !errors.As(err, &callErr) {
			callErr = &llm.ModelCallError{Model: llm.ModelName(c.model), Attempts: 1, Err: err}
		}
		if c.policy == DegradeOnModelError {
			log.Warn("model call failed, degrading segment", "err", callErr)
			return models.Degraded(callErr.Error()).Verdict(), nil
		}
		return models.Verdict{}, callErr
	}

	interp := Interpret(reply)
	if interp.IsDegraded() {
		log.Warn("model reply was not a JSON object", "reply_len", len(reply))
		return interp.Verdict(), nil
	}

	v := interp.Verdict()
	if c.cache != nil {
		if err := c.cache.Put(ctx, key, v); err != nil {
			log.Warn("cache store failed", "err", err)
		}
	}
	log.Debug("segment analyzed", "grammatical", v.Grammatical, "natural", v.Natural, "suggestions", len(v.Suggestions))
	return v, nil
}

// CacheKey derives the cache key for a prompt within a namespace
func CacheKey(namespace, prompt string) string {
	sum := sha256.Sum256([]byte(namespace + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
