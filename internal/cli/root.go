package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/legalease/internal/config"
	"github.com/kirillkom/legalease/internal/observability/logging"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

type options struct {
	cfgFile string
	v       *viper.Viper
}

// NewRootCommand builds the legalease command tree. Settings resolve as
// flag, then LEGALEASE_* environment, then the --config file, then the
// service defaults from config.Load.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "legalease",
		Short: "LegalEase - offline legal document summaries and clause explanations",
		Long: `LegalEase extracts text from legal documents, produces a plain-language
summary with the key clauses it detects, and explains individual clauses.

Its output is informational only and is not legal advice.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.initConfig(); err != nil {
				return err
			}
			slog.SetDefault(logging.NewTextLogger(cmd.ErrOrStderr(), opts.v.GetString("log_level")))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (yaml)")
	flags.String("log-level", "warn", "log level for stderr diagnostics")
	flags.String("tesseract", "", "tesseract binary used for image OCR")
	flags.String("ocr-lang", "", "tesseract language")
	flags.Int("min-sentences", 0, "minimum statistical summary length")
	flags.Int("max-sentences", 0, "maximum statistical summary length")
	_ = opts.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("tesseract", flags.Lookup("tesseract"))
	_ = opts.v.BindPFlag("ocr_lang", flags.Lookup("ocr-lang"))
	_ = opts.v.BindPFlag("min_sentences", flags.Lookup("min-sentences"))
	_ = opts.v.BindPFlag("max_sentences", flags.Lookup("max-sentences"))

	root.AddCommand(
		newAnalyzeCommand(opts),
		newExplainCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with the given arguments.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (o *options) initConfig() error {
	o.v.SetEnvPrefix("LEGALEASE")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if o.cfgFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.cfgFile)
	if err := o.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", o.cfgFile, err)
	}
	return nil
}

// serviceConfig layers the CLI settings over the service configuration.
func (o *options) serviceConfig() config.Config {
	cfg := config.Load()
	if v := o.v.GetString("tesseract"); v != "" {
		cfg.TesseractPath = v
	}
	if v := o.v.GetString("ocr_lang"); v != "" {
		cfg.OCRLang = v
	}
	if v := o.v.GetInt("min_sentences"); v > 0 {
		cfg.SummaryMinSentences = v
	}
	if v := o.v.GetInt("max_sentences"); v > 0 {
		cfg.SummaryMaxSentences = v
	}
	return cfg
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "legalease %s\n", Version)
		},
	}
}
