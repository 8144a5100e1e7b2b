// Package align implements global pairwise sequence alignment with affine
// gap penalties (Needleman-Wunsch with Gotoh's three-state recurrence).
package align

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Gap is the gap symbol used in aligned rows.
const Gap = '-'

// DefaultMaxLength caps the working length of each input sequence.
// A full affine-gap global alignment is O(n*m) in both time and memory;
// at the default cap the worst case is 2.5e9 matrix cells, so callers
// aligning whole genomes should lower the cap via Options.MaxLength.
const DefaultMaxLength = 50000

var (
	// ErrEmptySequence is returned when either input sequence is empty.
	ErrEmptySequence = errors.New("empty input sequence")

	// ErrSequenceTooLong is returned in strict length mode when an input
	// exceeds the configured cap. The default behavior is silent truncation.
	ErrSequenceTooLong = errors.New("sequence exceeds length cap")
)

// Scoring holds the integer alignment scoring parameters.
// GapOpen is the score of the first position of a gap and GapExtend the
// score of each subsequent position, so a gap of length L scores
// GapOpen + (L-1)*GapExtend.
type Scoring struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
}

// DefaultScoring returns the standard scoring scheme:
// match +1, mismatch -1, gap-open -2, gap-extend -1.
func DefaultScoring() Scoring {
	return Scoring{Match: 1, Mismatch: -1, GapOpen: -2, GapExtend: -1}
}

// Options configures an alignment run.
type Options struct {
	Scoring   Scoring
	MaxLength int  // working length cap per sequence; 0 means DefaultMaxLength
	Strict    bool // fail with ErrSequenceTooLong instead of truncating
}

// DefaultOptions returns options with the default scoring and length cap.
func DefaultOptions() Options {
	return Options{Scoring: DefaultScoring(), MaxLength: DefaultMaxLength}
}

// Alignment is a global alignment of two sequences. Ref and Query have
// equal length; column i of one row corresponds to column i of the other.
type Alignment struct {
	Ref   string // aligned reference row, may contain Gap
	Query string // aligned query row, may contain Gap
	Score int
}

// Len returns the number of alignment columns.
func (a *Alignment) Len() int {
	return len(a.Ref)
}

// Three-state Gotoh matrices: stateM aligns two residues, stateX opens or
// extends a gap in the query row (deletion), stateY a gap in the reference
// row (insertion).
const (
	stateM = 0
	stateX = 1
	stateY = 2
)

// negInf is a safely-addable stand-in for minus infinity.
const negInf = math.MinInt / 4

// Global computes one optimal global alignment of ref against query.
// Both sequences are consumed end-to-end; terminal gaps are charged at the
// full affine cost. Inputs longer than the cap are truncated (or rejected
// in strict mode). The run is abandoned when ctx is canceled; cancellation
// is checked once per matrix row.
//
// Tie-break between equally scoring alignments is deterministic: residue
// pairing is preferred over a query-row gap, which is preferred over a
// reference-row gap.
func Global(ctx context.Context, ref, query string, opts Options) (*Alignment, error) {
	if ref == "" || query == "" {
		return nil, ErrEmptySequence
	}

	maxLen := opts.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	if opts.Strict {
		if len(ref) > maxLen {
			return nil, fmt.Errorf("reference is %d bases, cap is %d: %w", len(ref), maxLen, ErrSequenceTooLong)
		}
		if len(query) > maxLen {
			return nil, fmt.Errorf("query is %d bases, cap is %d: %w", len(query), maxLen, ErrSequenceTooLong)
		}
	}
	if len(ref) > maxLen {
		ref = ref[:maxLen]
	}
	if len(query) > maxLen {
		query = query[:maxLen]
	}

	sc := opts.Scoring
	if sc == (Scoring{}) {
		sc = DefaultScoring()
	}

	n, m := len(ref), len(query)
	w := m + 1

	// Traceback: one byte per cell, two bits per state holding the
	// predecessor state of M, X and Y respectively.
	tb := make([]byte, (n+1)*w)

	// Rolling score rows.
	prevM := make([]int, w)
	prevX := make([]int, w)
	prevY := make([]int, w)
	curM := make([]int, w)
	curX := make([]int, w)
	curY := make([]int, w)

	// Row 0: only gaps in the reference row (Y state) are reachable.
	prevM[0] = 0
	prevX[0] = negInf
	prevY[0] = negInf
	for j := 1; j <= m; j++ {
		prevM[j] = negInf
		prevX[j] = negInf
		prevY[j] = sc.GapOpen + (j-1)*sc.GapExtend
		pred := byte(stateY)
		if j == 1 {
			pred = stateM
		}
		tb[j] = pred << 4
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Column 0: only gaps in the query row (X state) are reachable.
		curM[0] = negInf
		curY[0] = negInf
		curX[0] = sc.GapOpen + (i-1)*sc.GapExtend
		predX := byte(stateX)
		if i == 1 {
			predX = stateM
		}
		tb[i*w] = predX << 2

		rc := ref[i-1]
		for j := 1; j <= m; j++ {
			var cell byte

			// M: pair ref[i-1] with query[j-1].
			sub := sc.Mismatch
			if rc == query[j-1] {
				sub = sc.Match
			}
			bestM, predM := prevM[j-1], byte(stateM)
			if prevX[j-1] > bestM {
				bestM, predM = prevX[j-1], stateX
			}
			if prevY[j-1] > bestM {
				bestM, predM = prevY[j-1], stateY
			}
			curM[j] = bestM + sub
			cell |= predM

			// X: gap in the query row, consumes ref[i-1].
			bestX, pX := prevM[j]+sc.GapOpen, byte(stateM)
			if v := prevX[j] + sc.GapExtend; v > bestX {
				bestX, pX = v, stateX
			}
			if v := prevY[j] + sc.GapOpen; v > bestX {
				bestX, pX = v, stateY
			}
			curX[j] = bestX
			cell |= pX << 2

			// Y: gap in the reference row, consumes query[j-1].
			bestY, pY := curM[j-1]+sc.GapOpen, byte(stateM)
			if v := curX[j-1] + sc.GapOpen; v > bestY {
				bestY, pY = v, stateX
			}
			if v := curY[j-1] + sc.GapExtend; v > bestY {
				bestY, pY = v, stateY
			}
			curY[j] = bestY
			cell |= pY << 4

			tb[i*w+j] = cell
		}

		prevM, curM = curM, prevM
		prevX, curX = curX, prevX
		prevY, curY = curY, prevY
	}

	// Final state: deterministic preference M > X > Y on ties.
	score, state := prevM[m], stateM
	if prevX[m] > score {
		score, state = prevX[m], stateX
	}
	if prevY[m] > score {
		score, state = prevY[m], stateY
	}

	refRow, queryRow := traceback(tb, w, ref, query, state)
	return &Alignment{Ref: refRow, Query: queryRow, Score: score}, nil
}

// traceback reconstructs the aligned rows by walking predecessor states
// from (len(ref), len(query)) back to the origin.
func traceback(tb []byte, w int, ref, query string, state int) (string, string) {
	i, j := len(ref), len(query)

	// Worst case length of the alignment is n+m columns.
	refRow := make([]byte, 0, i+j)
	queryRow := make([]byte, 0, i+j)

	for i > 0 || j > 0 {
		cell := tb[i*w+j]
		switch state {
		case stateM:
			refRow = append(refRow, ref[i-1])
			queryRow = append(queryRow, query[j-1])
			state = int(cell & 0x3)
			i--
			j--
		case stateX:
			refRow = append(refRow, ref[i-1])
			queryRow = append(queryRow, Gap)
			state = int((cell >> 2) & 0x3)
			i--
		case stateY:
			refRow = append(refRow, Gap)
			queryRow = append(queryRow, query[j-1])
			state = int((cell >> 4) & 0x3)
			j--
		}
	}

	reverse(refRow)
	reverse(queryRow)
	return string(refRow), string(queryRow)
}

func reverse(b []byte) {
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
}
