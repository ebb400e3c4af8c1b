// Command phonorm converts text to Kokoro phonemes with eSpeak NG.
//
// Usage:
//
//	phonorm phonemize -l fr "Bonjour"
//	echo "h_ə_l_oʊ" | phonorm normalize -l en-us
//	phonorm voices
//	phonorm check testdata/reference.tsv
//	phonorm config
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ieee0824/phonorm"
	"github.com/ieee0824/phonorm/espeak"
	"github.com/ieee0824/phonorm/internal/config"
	"github.com/ieee0824/phonorm/internal/logging"
	"github.com/ieee0824/phonorm/kokoro"
	"github.com/ieee0824/phonorm/language"
	"github.com/ieee0824/phonorm/lexicon"
)

// errMismatch makes check exit non-zero after printing its report.
var errMismatch = errors.New("reference mismatches found")

// voiceEngine is the engine surface the CLI needs.
type voiceEngine interface {
	phonorm.Engine
	Voices() []espeak.Voice
}

type engineFactory func(ctx context.Context, cfg espeak.Config, logger zerolog.Logger) (voiceEngine, error)

func newEspeak(ctx context.Context, cfg espeak.Config, logger zerolog.Logger) (voiceEngine, error) {
	e, err := espeak.New(ctx, cfg, espeak.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return e, nil
}

// app holds flag values and state shared by the subcommands.
type app struct {
	cfgFile  string
	lang     string
	logLevel string
	verbose  bool

	cfg       *config.Config
	logger    zerolog.Logger
	newEngine engineFactory
}

func main() {
	_ = godotenv.Load()

	root := newRootCmd(&app{newEngine: newEspeak})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "phonorm",
		Short: "Convert text to Kokoro phonemes with eSpeak NG",
		Long: `phonorm runs eSpeak NG and normalizes its IPA output into the phoneme
alphabet expected by the Kokoro synthesizer.

Configuration is read from --config, ./phonorm.yaml or
$HOME/.config/phonorm/phonorm.yaml, then PHONORM_* environment variables
(for example PHONORM_ESPEAK_BINARY). A .env file in the working directory
is loaded first.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./phonorm.yaml)")
	root.PersistentFlags().StringVarP(&a.lang, "lang", "l", "", "language tag: "+tagList())
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	root.AddCommand(
		a.phonemizeCmd(),
		a.normalizeCmd(),
		a.voicesCmd(),
		a.checkCmd(),
		a.configCmd(),
	)
	return root
}

func tagList() string {
	tags := make([]string, 0, len(language.All()))
	for _, l := range language.All() {
		tags = append(tags, string(l))
	}
	return strings.Join(tags, ", ")
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if a.lang != "" {
		cfg.Language = a.lang
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.logger, err = logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// language returns the configured language; unset means US English.
func (a *app) language() language.Language {
	l, _ := a.cfg.ParsedLanguage()
	if l == language.None {
		return language.EnUS
	}
	return l
}

func (a *app) phonemizer(ctx context.Context) (*phonorm.Phonemizer, error) {
	e, err := a.newEngine(ctx, a.cfg.Espeak, a.logger)
	if err != nil {
		return nil, err
	}
	return phonorm.NewPhonemizerFromEngine(e,
		phonorm.WithLogger(a.logger),
		phonorm.WithLanguage(a.language()),
	)
}

func (a *app) phonemizeCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "phonemize [text...]",
		Short: "Phonemize text from arguments or stdin lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.phonemizer(ctx)
			if err != nil {
				return err
			}
			convert := p.Phonemize
			if raw {
				convert = p.Raw
			}
			return eachInput(cmd, args, func(text string) (string, error) {
				return convert(ctx, text)
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print eSpeak NG output without normalization")
	return cmd
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [phonemes...]",
		Short: "Normalize raw eSpeak NG phonemes from arguments or stdin lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.language()
			return eachInput(cmd, args, func(s string) (string, error) {
				return kokoro.NormalizeLanguage(s, l), nil
			})
		},
	}
}

func (a *app) voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List installed eSpeak NG voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.newEngine(cmd.Context(), a.cfg.Espeak, a.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range e.Voices() {
				fmt.Fprintf(out, "%-8s %-24s %s\n", v.Language, v.Identifier, v.Name)
			}
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Compare phonemizer output with a reference TSV (text, language, expected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := lexicon.LoadFile(args[0])
			if err != nil {
				return err
			}
			p, err := a.phonemizer(cmd.Context())
			if err != nil {
				return err
			}
			return a.runCheck(cmd, p, dict)
		},
	}
}

func (a *app) runCheck(cmd *cobra.Command, p *phonorm.Phonemizer, dict *lexicon.Dictionary) error {
	out := cmd.OutOrStdout()
	var mismatches, totalDist, totalTokens int
	for _, e := range dict.Entries {
		if err := p.SetLanguage(e.Language); err != nil {
			return fmt.Errorf("line %d: %w", e.Line, err)
		}
		got, err := p.Phonemize(cmd.Context(), e.Text)
		if err != nil {
			return fmt.Errorf("line %d: %w", e.Line, err)
		}

		want := lexicon.Tokens(e.Expected)
		dist := lexicon.PhonemeEditDistance(want, lexicon.Tokens(got))
		totalDist += dist
		totalTokens += len(want)
		a.logger.Debug().
			Int("line", e.Line).
			Str("language", string(e.Language)).
			Int("distance", dist).
			Msg("checked")

		if got == e.Expected {
			continue
		}
		mismatches++
		fmt.Fprintf(out, "line %d [%s] %q\n  want: %s\n  got:  %s (distance %d)\n",
			e.Line, e.Language, e.Text, e.Expected, got, dist)
	}

	per := 0.0
	if totalTokens > 0 {
		per = 100 * float64(totalDist) / float64(totalTokens)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d entries, %d mismatches, PER %.2f%%\n", len(dict.Entries), mismatches, per)
	if mismatches > 0 {
		return errMismatch
	}
	return nil
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
}

// eachInput converts the joined arguments, or every stdin line when there
// are none, and prints one result per line.
func eachInput(cmd *cobra.Command, args []string, convert func(string) (string, error)) error {
	out := cmd.OutOrStdout()
	emit := func(s string) error {
		res, err := convert(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, res)
		return nil
	}
	if len(args) > 0 {
		return emit(strings.Join(args, " "))
	}
	return eachLine(cmd.InOrStdin(), emit)
}

func eachLine(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
