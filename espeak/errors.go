package espeak

import "errors"

// Failures reported by the engine. Callers match them with errors.Is; none
// are retried, the caller must reselect a language or rebuild the engine.
var (
	ErrDataBundleNotFound = errors.New("espeak: data bundle not found")
	ErrCouldNotInitialize = errors.New("espeak: could not initialize")
	ErrLanguageNotFound   = errors.New("espeak: language not found")
	ErrInternal           = errors.New("espeak: internal error")
	ErrLanguageNotSet     = errors.New("espeak: language not set")
	ErrCouldNotPhonemize  = errors.New("espeak: could not phonemize")
)
