package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mgenlab/paircall/internal/align"
	"github.com/mgenlab/paircall/internal/call"
	"github.com/mgenlab/paircall/internal/output"
	"github.com/mgenlab/paircall/internal/store"
)

func newCallCmd() *cobra.Command {
	var (
		maxLength    int
		strictLength bool
		outputFormat string
		outputFile   string
		storePath    string
		pairsFile    string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "call [flags] <reference.fa> <query.fa>",
		Short: "Call variants between a reference and a query genome",
		Long: `Call variants between two FASTA files. The first record of each file is
loaded, the pair is globally aligned, and every differing alignment column
is reported as a substitution, insertion or deletion.

Sequences longer than the length cap are truncated before alignment (use
--strict-length to fail instead). Alignment is O(n*m) in time and memory,
so lower --max-length when working with large genomes.`,
		Example: `  paircall call ref.fa query.fa
  paircall call -f vcf -o variants.vcf ref.fa query.fa
  paircall call --store results.duckdb ref.fa query.fa
  paircall call --pairs batch.tsv --workers 4 -o variants.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			if pairsFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			opts := align.DefaultOptions()
			opts.MaxLength = viper.GetInt("call.max_length")
			if cmd.Flags().Changed("max-length") {
				opts.MaxLength = maxLength
			}
			opts.Strict = strictLength

			caller := call.NewCaller(opts)
			caller.SetLogger(logger)

			writer, out, err := newResultWriter(outputFormat, outputFile)
			if err != nil {
				return err
			}
			if out != nil {
				defer out.Close()
			}

			var st *store.Store
			if storePath != "" {
				st, err = store.Open(storePath)
				if err != nil {
					return fmt.Errorf("open result store: %w", err)
				}
				defer st.Close()
			}

			// Ctrl-C abandons in-flight alignments.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if pairsFile != "" {
				return runBatch(ctx, caller, logger, writer, st, pairsFile, workers)
			}

			res, err := caller.Call(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return emitResult(res, writer, st, logger)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", align.DefaultMaxLength,
		"length cap per input sequence; longer inputs are truncated")
	cmd.Flags().BoolVar(&strictLength, "strict-length", false,
		"fail when an input exceeds the length cap instead of truncating")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "f", "tab", "output format: tab, vcf")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB file to persist results into")
	cmd.Flags().StringVar(&pairsFile, "pairs", "", "TSV manifest of reference/query pairs for batch mode")
	cmd.Flags().IntVar(&workers, "workers", 0, "batch workers (default: number of CPUs)")

	viper.SetDefault("call.max_length", align.DefaultMaxLength)

	return cmd
}

// newResultWriter builds the requested formatter. The returned file is
// non-nil when writing somewhere other than stdout.
func newResultWriter(format, path string) (output.ResultWriter, *os.File, error) {
	var w io.Writer = os.Stdout
	var f *os.File
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		w = f
	}

	switch format {
	case "tab":
		return output.NewTabWriter(w), f, nil
	case "vcf":
		return output.NewVCFWriter(w), f, nil
	default:
		if f != nil {
			f.Close()
		}
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}

func emitResult(res *call.Result, writer output.ResultWriter, st *store.Store, logger *zap.Logger) error {
	if err := writer.WriteResult(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if st != nil {
		runID, err := st.SaveResult(res)
		if err != nil {
			return fmt.Errorf("persist result: %w", err)
		}
		logger.Info("result persisted", zap.Int64("run_id", runID))
	}
	return nil
}

// runBatch calls every pair in the manifest, emitting results in manifest
// order. A failed pair is reported and counted but does not stop the batch.
func runBatch(ctx context.Context, caller *call.Caller, logger *zap.Logger,
	writer output.ResultWriter, st *store.Store, pairsFile string, workers int) error {

	pairs, err := readPairsManifest(pairsFile)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("manifest %s contains no pairs", pairsFile)
	}

	ch := make(chan call.Pair, len(pairs))
	for _, p := range pairs {
		ch <- p
	}
	close(ch)

	results := caller.CallPairs(ctx, ch, workers)

	var failed int
	err = call.OrderedCollect(results, func(r call.PairResult) error {
		if r.Err != nil {
			if errors.Is(r.Err, context.Canceled) {
				return r.Err
			}
			failed++
			logger.Error("pair failed",
				zap.String("ref", r.Pair.RefPath),
				zap.String("query", r.Pair.QueryPath),
				zap.Error(r.Err))
			return nil
		}
		return emitResult(r.Result, writer, st, logger)
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pairs failed", failed, len(pairs))
	}
	return nil
}

// readPairsManifest reads a TSV manifest with one reference<TAB>query pair
// per line. Blank lines and lines starting with # are skipped.
func readPairsManifest(path string) ([]call.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pairs manifest: %w", err)
	}
	defer f.Close()

	var pairs []call.Pair
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("manifest %s line %d: expected 2 tab-separated paths, found %d",
				path, lineNo, len(fields))
		}
		pairs = append(pairs, call.Pair{
			Seq:       len(pairs),
			RefPath:   fields[0],
			QueryPath: fields[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pairs manifest: %w", err)
	}

	return pairs, nil
}
