// Package call derives variant records from a pairwise global alignment.
package call

import (
	"github.com/mgenlab/paircall/internal/align"
)

// Kind classifies a variant record.
type Kind string

const (
	// Substitution is a column where both rows carry a base.
	Substitution Kind = "substitution"
	// Insertion is a column where the reference row carries a gap.
	Insertion Kind = "insertion"
	// Deletion is a column where the query row carries a gap.
	Deletion Kind = "deletion"
)

// ContextRadius is the number of alignment columns captured on each side
// of a variant, giving a window of up to 2*ContextRadius+1 columns.
const ContextRadius = 10

// Variant is a single difference between the aligned reference and query.
// Records are immutable once created and ordered by ascending Pos.
type Variant struct {
	// Pos is the 1-based alignment column of the variant. Columns count
	// gaps, so Pos is an alignment offset, not a reference coordinate.
	Pos int

	// RefPos is the 1-based coordinate of the reference base at this
	// column, counting only non-gap reference characters. For insertions
	// it is the coordinate of the last reference base before the gap,
	// or 0 when the insertion precedes the first reference base.
	RefPos int

	// Ref and Alt are the reference and query characters at the column;
	// either may be the gap symbol for indels.
	Ref byte
	Alt byte

	Kind Kind

	// RefContext and QueryContext are the alignment rows around the
	// variant column, clamped at the alignment boundaries. Variants near
	// an edge get a window shorter than 2*ContextRadius+1; no padding is
	// applied.
	RefContext   string
	QueryContext string
}

// Extract walks the alignment column by column and emits one Variant for
// every column where the two rows differ. It is a pure function over the
// alignment; the returned slice is ordered by ascending column.
func Extract(aln *align.Alignment) []Variant {
	var variants []Variant
	refPos := 0

	for i := 0; i < len(aln.Ref); i++ {
		r, q := aln.Ref[i], aln.Query[i]
		if r != align.Gap {
			refPos++
		}
		if r == q {
			continue
		}

		kind := Substitution
		switch {
		case r == align.Gap:
			kind = Insertion
		case q == align.Gap:
			kind = Deletion
		}

		start := max(0, i-ContextRadius)
		end := min(len(aln.Ref), i+ContextRadius+1)

		variants = append(variants, Variant{
			Pos:          i + 1,
			RefPos:       refPos,
			Ref:          r,
			Alt:          q,
			Kind:         kind,
			RefContext:   aln.Ref[start:end],
			QueryContext: aln.Query[start:end],
		})
	}

	return variants
}
