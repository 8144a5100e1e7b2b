package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mgenlab/paircall/internal/call"
)

// placeholderChrom is written in the CHROM column. No chromosome or contig
// naming is modeled for a single pairwise call.
const placeholderChrom = "ref"

// VCFWriter writes variants as a minimal VCF-like table with columns
// CHROM, POS, ID, REF, ALT and INFO, where INFO carries TYPE=<kind>.
// This is deliberately not a conformant VCF: indel alleles keep the gap
// symbol instead of being left-normalized with an anchor base, and no
// genotype, quality or filter fields are emitted.
type VCFWriter struct {
	w *bufio.Writer
}

// NewVCFWriter creates a new minimal-VCF writer.
func NewVCFWriter(w io.Writer) *VCFWriter {
	return &VCFWriter{w: bufio.NewWriter(w)}
}

// WriteResult writes the meta header, the column header and one line per
// variant, then flushes. POS is the ungapped reference coordinate; the
// alignment-column position is carried in the INFO field as COL.
func (vw *VCFWriter) WriteResult(res *call.Result) error {
	s := res.Stats
	header := fmt.Sprintf(`##fileformat=VCFv4.2
##source=paircall
##reference=%s
##query=%s
##paircall_stats=transitions=%d;transversions=%d;ratio=%.2f
##INFO=<ID=TYPE,Number=1,Type=String,Description="Variant type: substitution, insertion or deletion">
##INFO=<ID=COL,Number=1,Type=Integer,Description="1-based alignment column of the variant">
#CHROM	POS	ID	REF	ALT	INFO
`, res.RefPath, res.QueryPath, s.Transitions, s.Transversions, s.Ratio)

	if _, err := vw.w.WriteString(header); err != nil {
		return err
	}

	for _, v := range res.Variants {
		line := fmt.Sprintf("%s\t%d\t.\t%c\t%c\tTYPE=%s;COL=%d\n",
			placeholderChrom, v.RefPos, v.Ref, v.Alt, v.Kind, v.Pos)
		if _, err := vw.w.WriteString(line); err != nil {
			return err
		}
	}

	return vw.w.Flush()
}
