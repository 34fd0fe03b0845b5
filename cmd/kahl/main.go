// Command kahl streams stdin to stdout, redacting secrets line by line.
package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FordUniver/kahl/internal/config"
	"github.com/FordUniver/kahl/internal/doctor"
	"github.com/FordUniver/kahl/internal/redactor"
	"github.com/FordUniver/kahl/internal/report"
	"github.com/FordUniver/kahl/internal/sink"
	"github.com/spf13/cobra"
)

//go:embed VERSION
var versionFile string

func version() string {
	return strings.TrimSpace(versionFile)
}

// knownFlags is the set of long-form flags kahl recognizes, used by the
// manual pre-scan in validateArgs (§10.1): cobra's own "unknown flag"
// error text doesn't match the spec's required wording, so unrecognized
// options are rejected before cobra ever sees them.
var knownFlags = map[string]bool{
	"--version": true, "-v": true,
	"--help": true, "-h": true,
	"--filter": true, "-f": true,
	"--config": true,
	"--sink":   true,
	"--stats":  true,

	// doctor subcommand flags
	"--skip-remote": true,
	"--init-config": true,
}

// valueFlags names flags that consume the following argument as their
// value, so validateArgs doesn't mistake a value for a flag.
var valueFlags = map[string]bool{
	"--filter": true, "-f": true,
	"--config": true,
	"--sink":   true,
}

// validateArgs rejects any "-..." argument kahl doesn't recognize, in
// either "--flag value" or "--flag=value" form, mirroring the manual
// argument loop in the original reference implementation's main().
func validateArgs(args []string) error {
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}

		name, _, hasEq := strings.Cut(arg, "=")
		if !knownFlags[name] {
			return fmt.Errorf("Unknown option: %s", arg)
		}
		if valueFlags[name] && !hasEq {
			skipNext = true
		}
	}
	return nil
}

func main() {
	if err := validateArgs(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'kahl --help' for more information.")
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var flags config.CLIFlags

var rootCmd = &cobra.Command{
	Use:   "kahl",
	Short: "Redact secrets from a streamed log",
	Long: `kahl reads a byte stream on stdin and writes a redacted copy to
stdout, replacing detected secrets with non-reversible markers. It is
designed to sit in a pipeline between a noisy log source and wherever
that log is stored or forwarded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var doctorCmd = &cobra.Command{
	Use:           "doctor",
	Short:         "Validate configuration and, if a sink is set, connectivity",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDoctor,
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "print version and exit")
	rootCmd.PersistentFlags().StringVarP(&flags.Filter, "filter", "f", "", "comma-separated list from values,patterns,entropy,all")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to a supplemental YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.Sink, "sink", "", "optional s3://bucket/key upload destination")
	rootCmd.Flags().BoolVar(&flags.Stats, "stats", false, "print a redaction-count table to stderr at EOF")

	doctorCmd.Flags().Bool("skip-remote", false, "skip the sink connectivity probe")
	doctorCmd.Flags().Bool("init-config", false, "write a starter --config file and exit")

	rootCmd.AddCommand(doctorCmd)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		fmt.Fprintln(cmd.OutOrStdout(), version())
		return nil
	}

	flags.FilterChanged = cmd.Flags().Changed("filter")
	cfg, err := config.Resolve(flags)
	if err != nil {
		return err
	}

	pipeline := redactor.NewPipeline(cfg)

	// Stdout always receives the full redacted stream regardless of sink
	// status (§3 SinkTarget, §11.1): when a sink is configured, the
	// stream is also teed into an in-memory buffer for the single
	// end-of-run upload.
	out := cmd.OutOrStdout()
	var sinkBuf *bytes.Buffer
	if cfg.Sink.Bucket != "" {
		sinkBuf = &bytes.Buffer{}
		out = io.MultiWriter(out, sinkBuf)
	}

	if err := redactor.Run(cmd.InOrStdin(), out, pipeline); err != nil {
		return fmt.Errorf("processing stream: %w", err)
	}

	if cfg.Stats {
		report.PrintStats(cmd.ErrOrStderr(), pipeline.Stats)
	}

	if cfg.Sink.Bucket != "" {
		ctx := cmd.Context()
		client, err := config.NewS3Client(ctx)
		if err != nil {
			return fmt.Errorf("initializing sink: %w", err)
		}
		if err := sink.New(client, cfg.Sink).Upload(ctx, sinkBuf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if initCfg, _ := cmd.Flags().GetBool("init-config"); initCfg {
		path := flags.ConfigPath
		if path == "" {
			path = os.Getenv("KAHL_CONFIG")
		}
		if path == "" {
			path = "./kahl.yaml"
		}
		if err := config.CreateStarterConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter config to %s\n", path)
		return nil
	}

	flags.FilterChanged = cmd.Flags().Changed("filter")
	cfg, err := config.Resolve(flags)
	if err != nil {
		return err
	}

	skipRemote, _ := cmd.Flags().GetBool("skip-remote")
	if !doctor.RunChecks(cmd.Context(), cmd.OutOrStdout(), cfg, skipRemote) {
		os.Exit(1)
	}
	return nil
}
