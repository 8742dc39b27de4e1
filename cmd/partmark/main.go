// partmark - enroll physical parts from sensor signatures and verify
// candidate measurements against them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partmark/partmark/calibrate"
	"github.com/partmark/partmark/gf"
	"github.com/partmark/partmark/log"
	"github.com/partmark/partmark/part"
	"github.com/partmark/partmark/quantize"
	"github.com/partmark/partmark/report"
	"github.com/partmark/partmark/signal"
	"github.com/partmark/partmark/store"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func loadSignal(path string, cols []int) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pmsm", ".bin":
		return signal.ReadMatrix(path)
	default:
		return signal.ReadCSV(path, cols)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "partmark",
		Short: "Sensor-signature part authentication",
		Long: `partmark authenticates physical parts by comparing a noisy sensor
signature against an enrolled master. The master's quantized signature is
protected by Reed-Solomon check symbols; a candidate matches iff its own
signature decodes back to the master within the code's correction radius.`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	var (
		dbPath   string
		logLevel string
		modules  string
		cols     []int
	)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "partmark.db", "Reference record database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace..crit)")
	rootCmd.PersistentFlags().StringVar(&modules, "debug-modules", "", "Comma-separated debug modules (or 'all')")
	rootCmd.PersistentFlags().IntSliceVar(&cols, "cols", signal.DefaultColumns, "CSV columns holding sensor readings")

	var (
		fieldExp int
		checkLen int
		digits   int
		workers  int
	)

	var enrollCmd = &cobra.Command{
		Use:   "enroll <part-name> <master-file>",
		Short: "Build and store a reference record from a master signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.InitLogger(logLevel)
			log.EnableModules(modules)
			name, masterFile := args[0], args[1]

			field, err := gf.New(fieldExp)
			if err != nil {
				return err
			}
			master, err := loadSignal(masterFile, cols)
			if err != nil {
				return err
			}
			ref, err := part.BuildReference(field, name, master, checkLen, digits)
			if err != nil {
				return err
			}

			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Put(ref); err != nil {
				return err
			}

			fmt.Printf("Enrolled %q: %d data symbols, %d check symbols, GF(2^%d)\n",
				name, ref.DataLen(), ref.CheckLen, ref.M)
			return nil
		},
	}
	enrollCmd.Flags().IntVar(&fieldExp, "m", 14, "Field exponent (codeword length up to 2^m-1)")
	enrollCmd.Flags().IntVar(&checkLen, "check", 3000, "Number of check symbols")
	enrollCmd.Flags().IntVar(&digits, "digits", quantize.DefaultDigits, "Digits extracted per reading")

	var verifyCmd = &cobra.Command{
		Use:   "verify <part-name> <candidate-file>...",
		Short: "Verify candidate signatures against an enrolled reference",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.InitLogger(logLevel)
			log.EnableModules(modules)
			name, files := args[0], args[1:]

			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			ref, ok, err := db.Get(name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no reference record for part %q", name)
			}
			field, err := gf.New(ref.M)
			if err != nil {
				return err
			}

			candidates := make([]part.Candidate, 0, len(files))
			for _, file := range files {
				sig, err := loadSignal(file, cols)
				if err != nil {
					// One bad file must not sink the batch.
					fmt.Printf("SKIP %s: %v\n", file, err)
					continue
				}
				candidates = append(candidates, part.Candidate{Label: file, Signal: sig})
			}

			results := part.AuthenticateBatch(field, ref, candidates, workers)
			passed := 0
			for _, r := range results {
				if r.Verdict.OK {
					passed++
					fmt.Printf("PASS %s (corrected %d symbols)\n", r.Label, r.Verdict.ErrorsCorrected)
				} else {
					fmt.Printf("FAIL %s\n", r.Label)
				}
			}
			fmt.Printf("%d/%d candidates authenticated as %q\n", passed, len(results), name)
			return nil
		},
	}
	verifyCmd.Flags().IntVar(&workers, "workers", 0, "Verification workers (0 = one per CPU)")

	var (
		sameFiles  []string
		otherFiles []string
		reportPath string
	)
	var calibrateCmd = &cobra.Command{
		Use:   "calibrate <master-file>",
		Short: "Compute the admissible check-length range from sample groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.InitLogger(logLevel)
			log.EnableModules(modules)

			field, err := gf.New(fieldExp)
			if err != nil {
				return err
			}
			master, err := loadSignal(args[0], cols)
			if err != nil {
				return err
			}
			loadGroup := func(files []string) ([][]float64, error) {
				group := make([][]float64, 0, len(files))
				for _, file := range files {
					sig, err := loadSignal(file, cols)
					if err != nil {
						return nil, err
					}
					group = append(group, sig)
				}
				return group, nil
			}
			same, err := loadGroup(sameFiles)
			if err != nil {
				return err
			}
			other, err := loadGroup(otherFiles)
			if err != nil {
				return err
			}

			res, err := calibrate.Run(field, master, same, other, digits)
			if err != nil {
				return err
			}

			fmt.Printf("CHECK should be between %d and %d. It is currently set to %d.\n",
				res.MinCheck, res.MaxCheck, checkLen)
			fmt.Printf("Suggested check length (midpoint strategy): %d\n", calibrate.Midpoint(res))
			if reportPath != "" {
				if err := report.RenderFile(reportPath, filepath.Base(args[0]), res); err != nil {
					return err
				}
				fmt.Printf("Calibration report written to %s\n", reportPath)
			}
			return nil
		},
	}
	calibrateCmd.Flags().IntVar(&fieldExp, "m", 14, "Field exponent")
	calibrateCmd.Flags().IntVar(&checkLen, "check", 3000, "Currently configured check length")
	calibrateCmd.Flags().IntVar(&digits, "digits", quantize.DefaultDigits, "Digits extracted per reading")
	calibrateCmd.Flags().StringSliceVar(&sameFiles, "same", nil, "Signature files known to be the same object")
	calibrateCmd.Flags().StringSliceVar(&otherFiles, "other", nil, "Signature files known to be different objects")
	calibrateCmd.Flags().StringVar(&reportPath, "report", "", "Write an HTML calibration report to this path")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("partmark %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.AddCommand(enrollCmd, verifyCmd, calibrateCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
