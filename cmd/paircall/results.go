package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mgenlab/paircall/internal/store"
)

func newResultsCmd() *cobra.Command {
	var (
		storePath string
		runID     int64
		kind      string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List persisted call runs and their variants",
		Long: `List runs stored with 'call --store'. Without --run, one line per run is
printed; with --run, the variants of that run are printed, optionally
filtered by kind.`,
		Example: `  paircall results --store results.duckdb
  paircall results --store results.duckdb --run 3
  paircall results --store results.duckdb --run 3 --kind substitution`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := storePath
			if path == "" {
				path = viper.GetString("store.path")
			}
			if path == "" {
				return fmt.Errorf("no store path given; use --store or set store.path in ~/.paircall.yaml")
			}

			st, err := openResultStore(path)
			if err != nil {
				return err
			}
			defer st.Close()

			if runID > 0 {
				return printVariants(st, runID, kind, limit)
			}
			return printRuns(st, limit)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB result store to read")
	cmd.Flags().Int64Var(&runID, "run", 0, "show variants of this run instead of the run list")
	cmd.Flags().StringVar(&kind, "kind", "", "filter variants by kind: substitution, insertion, deletion")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")

	viper.SetDefault("store.path", defaultStorePath())

	return cmd
}

// openResultStore opens an existing store for reading. Opening a DuckDB
// path creates the file, so a listing command must refuse paths that do
// not exist yet rather than leave an empty store behind.
func openResultStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no result store at %s; create one with 'paircall call --store'", path)
		}
		return nil, fmt.Errorf("stat result store: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return st, nil
}

// defaultStorePath returns ~/.paircall/results.duckdb, or empty when the
// home directory cannot be determined.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".paircall", "results.duckdb")
}

func printRuns(st *store.Store, limit int) error {
	runs, err := st.Runs(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tREFERENCE\tQUERY\tVARIANTS\tTS\tTV\tTS/TV\tSCORE\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%.2f\t%d\t%s\n",
			r.ID, r.RefPath, r.QueryPath, r.VariantCount,
			r.Transitions, r.Transversions, r.Ratio, r.Score,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func printVariants(st *store.Store, runID int64, kind string, limit int) error {
	variants, err := st.Variants(runID, kind, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tREF_POS\tTYPE\tREF\tALT\tREF_CONTEXT\tQUERY_CONTEXT")
	for _, v := range variants {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			v.Pos, v.RefPos, v.Kind, v.Ref, v.Alt, v.RefContext, v.QueryContext)
	}
	return tw.Flush()
}
