// Package espeak drives the eSpeak NG command line tool to turn text into
// raw IPA phonemes. The engine is not reentrant, so calls are serialised.
package espeak

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ieee0824/phonorm/language"
)

// Config holds eSpeak NG invocation settings.
type Config struct {
	Binary    string        `mapstructure:"binary" yaml:"binary"`       // executable name or path
	DataPath  string        `mapstructure:"data_path" yaml:"data_path"` // espeak-ng-data directory, empty = built-in
	Separator string        `mapstructure:"separator" yaml:"separator"` // phoneme separator character
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`     // per invocation, 0 = none
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Binary:    "espeak-ng",
		Separator: "_",
		Timeout:   10 * time.Second,
	}
}

// Runner executes the engine binary with the given stdin and arguments.
type Runner interface {
	Run(ctx context.Context, stdin string, args ...string) ([]byte, error)
}

type execRunner struct {
	path   string
	logger zerolog.Logger
}

func (r execRunner) Run(ctx context.Context, stdin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Strs("args", args).
			Msg("espeak-ng failed")
		return nil, err
	}
	return out, nil
}

// Engine selects voices and produces raw phonemes.
type Engine struct {
	cfg    Config
	run    Runner
	logger zerolog.Logger

	voices  []Voice
	mapping map[language.Language]string // language -> voice identifier

	mu   sync.Mutex
	lang language.Language
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		e.run = r
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New locates eSpeak NG, lists its voices and checks that every supported
// language is installed. Call SetLanguage before RawPhonemes.
func New(ctx context.Context, cfg Config, opts ...Option) (*Engine, error) {
	def := DefaultConfig()
	if cfg.Binary == "" {
		cfg.Binary = def.Binary
	}
	if cfg.Separator == "" {
		cfg.Separator = def.Separator
	}

	e := &Engine{
		cfg:     cfg,
		logger:  zerolog.Nop(),
		mapping: make(map[language.Language]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "espeak").Logger()

	if cfg.DataPath != "" {
		if _, err := os.Stat(cfg.DataPath); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDataBundleNotFound, cfg.DataPath, err)
		}
	}

	if e.run == nil {
		path, err := exec.LookPath(cfg.Binary)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCouldNotInitialize, err)
		}
		e.run = execRunner{path: path, logger: e.logger}
	}

	out, err := e.invoke(ctx, "", e.pathArgs("--voices")...)
	if err != nil {
		return nil, fmt.Errorf("%w: list voices: %v", ErrCouldNotInitialize, err)
	}
	e.voices, err = parseVoices(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: parse voices: %v", ErrCouldNotInitialize, err)
	}
	if len(e.voices) == 0 {
		return nil, fmt.Errorf("%w: no voices installed", ErrCouldNotInitialize)
	}

	installed := make(map[string]string, len(e.voices))
	for _, v := range e.voices {
		if _, ok := installed[v.Language]; !ok {
			installed[v.Language] = v.Identifier
		}
	}
	for _, l := range language.All() {
		id, ok := installed[string(l)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, l)
		}
		e.mapping[l] = id
	}

	e.logger.Debug().Int("voices", len(e.voices)).Msg("engine initialized")
	return e, nil
}

// Voices returns the installed voices sorted by language.
func (e *Engine) Voices() []Voice {
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// SetLanguage selects the voice used by later RawPhonemes calls. The
// previous language stays active when an error is returned.
func (e *Engine) SetLanguage(l language.Language) error {
	if _, ok := e.mapping[l]; !ok {
		return fmt.Errorf("%w: %s", ErrLanguageNotFound, l)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lang = l
	e.logger.Debug().Str("language", string(l)).Msg("language set")
	return nil
}

// Language returns the active language, None until SetLanguage succeeds.
func (e *Engine) Language() language.Language {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lang
}

// RawPhonemes phonemizes text with the active voice. It also returns the
// language that was active for this call so the caller can normalize
// without reading engine state again.
func (e *Engine) RawPhonemes(ctx context.Context, text string) (string, language.Language, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := e.lang
	if l == language.None {
		return "", l, ErrLanguageNotSet
	}
	if text == "" {
		return "", l, nil
	}

	args := e.pathArgs("-q", "-b", "1", "--ipa", "--sep="+e.cfg.Separator, "-v", e.mapping[l], "--stdin")
	out, err := e.invoke(ctx, text, args...)
	if err != nil {
		return "", l, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	phonemes := joinLines(string(out))
	if phonemes == "" {
		return "", l, fmt.Errorf("%w: %q", ErrCouldNotPhonemize, text)
	}
	return phonemes, l, nil
}

func (e *Engine) invoke(ctx context.Context, stdin string, args ...string) ([]byte, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	return e.run.Run(ctx, stdin, args...)
}

func (e *Engine) pathArgs(args ...string) []string {
	if e.cfg.DataPath == "" {
		return args
	}
	return append([]string{"--path=" + e.cfg.DataPath}, args...)
}

// joinLines joins the engine's per-clause output lines with single spaces.
func joinLines(out string) string {
	var parts []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
