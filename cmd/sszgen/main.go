package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alma.local/sszgen/internal/config"
	"alma.local/sszgen/internal/gen"
	"alma.local/sszgen/internal/render"
	"alma.local/sszgen/internal/schema"
)

var (
	verbose    bool
	configPath string
	corpusRoot string
	dataRoot   string
	dataRef    string
	pkgName    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sszgen <category>",
	Short: "Generate Go conformance tests from the ssz_generic corpus",
	Long: `Reads <corpus>/<category>/{valid,invalid}/* and writes one Go test file to
stdout. Each valid case checks encoding, decoding and hash tree root of its
value; each invalid case checks that decoding fails. Payloads are copied
under --data so the generated tests can find them.

Categories: boolean, uints, basic_vector, bitvector, bitlist, containers.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: schema.Categories,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
	RunE:         runGenerate,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <category> <handler>",
	Short: "Print the schema, Go type and struct tag a corpus handler resolves to",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.Flags().StringVar(&corpusRoot, "corpus", "", "ssz_generic corpus root (overrides config)")
	rootCmd.Flags().StringVar(&dataRoot, "data", "", "directory payloads are copied to (overrides config)")
	rootCmd.Flags().StringVar(&dataRef, "data-ref", "", "payload path prefix used inside generated tests (overrides config)")
	rootCmd.Flags().StringVar(&pkgName, "package", "", "package clause of the generated file (overrides config)")
	rootCmd.AddCommand(resolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("sszgen failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the other flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Merge(config.Config{
		CorpusRoot: corpusRoot,
		DataRoot:   dataRoot,
		DataRef:    dataRef,
		Package:    pkgName,
	})
	return cfg, cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Debug("config", zap.String("corpus", cfg.CorpusRoot), zap.String("data", cfg.DataRoot))
	_, err = gen.New(cfg, logger).Run(args[0], cmd.OutOrStdout())
	return err
}

func runResolve(cmd *cobra.Command, args []string) error {
	d, err := schema.Resolve(args[0], args[1])
	if err != nil {
		return err
	}
	tag, err := render.Tag(d)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "schema: %s\n", d)
	fmt.Fprintf(out, "type:   %s\n", render.TypeString(d))
	if tag != "" {
		fmt.Fprintf(out, "tag:    %s\n", tag)
	}
	return nil
}
