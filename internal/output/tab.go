// Package output provides variant call result formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mgenlab/paircall/internal/call"
)

// ResultWriter writes a complete call result in some format.
type ResultWriter interface {
	WriteResult(res *call.Result) error
}

// TabWriter writes variants in tab-delimited format with a stats summary.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Pos",
			"Ref_pos",
			"Type",
			"Ref",
			"Alt",
			"Ref_context",
			"Query_context",
		},
	}
}

// WriteResult writes the stats summary, the header line and one row per
// variant, then flushes.
func (tw *TabWriter) WriteResult(res *call.Result) error {
	s := res.Stats
	summary := fmt.Sprintf("## %s vs %s: %d variants, transitions=%d transversions=%d ts/tv=%.2f\n",
		res.QueryID, res.RefID, len(res.Variants), s.Transitions, s.Transversions, s.Ratio)
	if _, err := tw.w.WriteString(summary); err != nil {
		return err
	}

	if _, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n"); err != nil {
		return err
	}

	for _, v := range res.Variants {
		row := fmt.Sprintf("%d\t%d\t%s\t%c\t%c\t%s\t%s\n",
			v.Pos, v.RefPos, v.Kind, v.Ref, v.Alt, v.RefContext, v.QueryContext)
		if _, err := tw.w.WriteString(row); err != nil {
			return err
		}
	}

	return tw.w.Flush()
}
