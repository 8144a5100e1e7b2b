package call

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mgenlab/paircall/internal/align"
	"github.com/mgenlab/paircall/internal/fasta"
)

// Result is the outcome of one variant-calling invocation: the ordered
// variant records plus their aggregate statistics as a sibling value.
type Result struct {
	RefPath   string
	QueryPath string
	RefID     string
	QueryID   string

	Alignment *align.Alignment
	Variants  []Variant
	Stats     Stats
}

// Caller runs the load -> align -> extract -> aggregate pipeline for a
// reference/query pair. A Caller is safe for concurrent use: each call
// operates on locally-owned, immutable-after-construction values.
type Caller struct {
	opts   align.Options
	logger *zap.Logger
}

// NewCaller creates a caller with the given alignment options.
func NewCaller(opts align.Options) *Caller {
	return &Caller{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (c *Caller) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Call loads the first FASTA record from each path, aligns the pair and
// extracts variants. Any failure is terminal for the invocation; nothing
// is retried and no partial result is returned.
func (c *Caller) Call(ctx context.Context, refPath, queryPath string) (*Result, error) {
	ref, err := fasta.ReadFirst(refPath)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}
	query, err := fasta.ReadFirst(queryPath)
	if err != nil {
		return nil, fmt.Errorf("load query: %w", err)
	}

	return c.CallSequences(ctx, ref, query, refPath, queryPath)
}

// CallSequences runs the pipeline on already-loaded records.
func (c *Caller) CallSequences(ctx context.Context, ref, query *fasta.Record, refPath, queryPath string) (*Result, error) {
	maxLen := c.opts.MaxLength
	if maxLen <= 0 {
		maxLen = align.DefaultMaxLength
	}
	if !c.opts.Strict && (ref.Len() > maxLen || query.Len() > maxLen) {
		c.logger.Warn("sequence exceeds length cap, truncating",
			zap.Int("cap", maxLen),
			zap.Int("ref_length", ref.Len()),
			zap.Int("query_length", query.Len()))
	}

	c.logger.Info("aligning sequences",
		zap.String("ref", ref.ID),
		zap.String("query", query.ID),
		zap.Int("ref_length", ref.Len()),
		zap.Int("query_length", query.Len()))

	aln, err := align.Global(ctx, ref.Seq, query.Seq, c.opts)
	if err != nil {
		return nil, fmt.Errorf("align %s against %s: %w", query.ID, ref.ID, err)
	}

	variants := Extract(aln)
	stats := ComputeStats(variants)

	c.logger.Info("variant calling complete",
		zap.Int("columns", aln.Len()),
		zap.Int("score", aln.Score),
		zap.Int("variants", len(variants)),
		zap.Int("transitions", stats.Transitions),
		zap.Int("transversions", stats.Transversions))

	return &Result{
		RefPath:   refPath,
		QueryPath: queryPath,
		RefID:     ref.ID,
		QueryID:   query.ID,
		Alignment: aln,
		Variants:  variants,
		Stats:     stats,
	}, nil
}
