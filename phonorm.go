// Package phonorm converts text to Kokoro phonemes by running eSpeak NG and
// normalizing its raw IPA output.
package phonorm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ieee0824/phonorm/espeak"
	"github.com/ieee0824/phonorm/kokoro"
	"github.com/ieee0824/phonorm/language"
)

// Engine produces raw phonemes for the active language.
type Engine interface {
	SetLanguage(l language.Language) error
	// RawPhonemes returns the engine output together with the language
	// that was active when it was produced.
	RawPhonemes(ctx context.Context, text string) (string, language.Language, error)
}

// Phonemizer is the top-level text to Kokoro phoneme converter.
type Phonemizer struct {
	engine    Engine
	logger    zerolog.Logger
	engineCfg espeak.Config
	lang      language.Language
}

// Option configures a Phonemizer.
type Option func(*Phonemizer)

// WithLogger sets the logger passed down to the engine.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Phonemizer) {
		p.logger = l
	}
}

// WithEngineConfig sets eSpeak NG settings. Ignored by NewPhonemizerFromEngine.
func WithEngineConfig(cfg espeak.Config) Option {
	return func(p *Phonemizer) {
		p.engineCfg = cfg
	}
}

// WithLanguage selects the initial language.
func WithLanguage(l language.Language) Option {
	return func(p *Phonemizer) {
		p.lang = l
	}
}

// NewPhonemizer starts an eSpeak NG engine and wraps it.
func NewPhonemizer(ctx context.Context, opts ...Option) (*Phonemizer, error) {
	p := newPhonemizer(opts)
	e, err := espeak.New(ctx, p.engineCfg, espeak.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return p.attach(e)
}

// NewPhonemizerFromEngine wraps an already initialized engine.
func NewPhonemizerFromEngine(e Engine, opts ...Option) (*Phonemizer, error) {
	return newPhonemizer(opts).attach(e)
}

func newPhonemizer(opts []Option) *Phonemizer {
	p := &Phonemizer{
		logger:    zerolog.Nop(),
		engineCfg: espeak.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Phonemizer) attach(e Engine) (*Phonemizer, error) {
	p.engine = e
	if p.lang != language.None {
		if err := p.SetLanguage(p.lang); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Engine returns the underlying engine.
func (p *Phonemizer) Engine() Engine {
	return p.engine
}

// SetLanguage switches the engine voice.
func (p *Phonemizer) SetLanguage(l language.Language) error {
	if err := p.engine.SetLanguage(l); err != nil {
		return fmt.Errorf("set language %s: %w", l, err)
	}
	return nil
}

// Raw returns the engine output without normalization.
func (p *Phonemizer) Raw(ctx context.Context, text string) (string, error) {
	raw, _, err := p.engine.RawPhonemes(ctx, text)
	return raw, err
}

// Phonemize returns Kokoro phonemes for text.
func (p *Phonemizer) Phonemize(ctx context.Context, text string) (string, error) {
	raw, l, err := p.engine.RawPhonemes(ctx, text)
	if err != nil {
		return "", err
	}
	out := kokoro.Normalize(raw, l.Class())
	p.logger.Debug().
		Str("language", l.String()).
		Str("raw", raw).
		Str("phonemes", out).
		Msg("phonemized")
	return out, nil
}
