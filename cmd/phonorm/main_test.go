package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/phonorm/espeak"
	"github.com/ieee0824/phonorm/language"
)

// fakeEngine answers from a text -> raw phoneme table.
type fakeEngine struct {
	lang language.Language
	raw  map[string]string
}

func (f *fakeEngine) SetLanguage(l language.Language) error {
	f.lang = l
	return nil
}

func (f *fakeEngine) RawPhonemes(_ context.Context, text string) (string, language.Language, error) {
	if f.lang == language.None {
		return "", f.lang, espeak.ErrLanguageNotSet
	}
	return f.raw[text], f.lang, nil
}

func (f *fakeEngine) Voices() []espeak.Voice {
	return []espeak.Voice{
		{Language: "en-us", Gender: "M", Name: "English_(America)", Identifier: "gmw/en-US"},
		{Language: "fr", Gender: "M", Name: "French", Identifier: "roa/fr"},
	}
}

func newTestApp() *app {
	f := &fakeEngine{raw: map[string]string{
		"Hello world!": "h_ə_l_ˈoʊ w_ˈɜː_l_d",
		"bon":          "b_ˈɔ\u0303",
	}}
	return &app{
		newEngine: func(context.Context, espeak.Config, zerolog.Logger) (voiceEngine, error) {
			return f, nil
		},
	}
}

func execute(t *testing.T, a *app, stdin string, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := newRootCmd(a)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestNormalize_Args(t *testing.T) {
	out, _, err := execute(t, newTestApp(), "", "normalize", "-l", "en-us", "h_ə_l_oʊ", "w_ɜː_l_d")
	require.NoError(t, err)
	assert.Equal(t, "h_ə_l_ɔʊ w_ɜɹ_l_d\n", out)
}

func TestNormalize_Stdin(t *testing.T) {
	out, _, err := execute(t, newTestApp(), "b ɔ\u0303\np_e_ɾ_o\n\n", "normalize", "--lang", "fr")
	require.NoError(t, err)
	assert.Equal(t, "b C\np_e_ɾ_o\n\n", out)
}

func TestNormalize_UnknownLanguage(t *testing.T) {
	_, _, err := execute(t, newTestApp(), "", "normalize", "-l", "de", "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, language.ErrUnsupported)
}

func TestPhonemize(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"normalized", []string{"phonemize", "Hello", "world!"}, "h_ə_l_ˈɔʊ w_ˈɜɹ_l_d\n"},
		{"raw", []string{"phonemize", "--raw", "Hello world!"}, "h_ə_l_ˈoʊ w_ˈɜː_l_d\n"},
		{"french", []string{"phonemize", "-l", "fr", "bon"}, "b_ˈC\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, newTestApp(), "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVoices(t *testing.T) {
	out, _, err := execute(t, newTestApp(), "", "voices")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "en-us"))
	assert.Contains(t, lines[1], "roa/fr")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	pass := filepath.Join(dir, "pass.tsv")
	require.NoError(t, os.WriteFile(pass, []byte("Hello world!\ten-us\th_ə_l_ˈɔʊ w_ˈɜɹ_l_d\nbon\tfr\tb_ˈC\n"), 0o644))
	fail := filepath.Join(dir, "fail.tsv")
	require.NoError(t, os.WriteFile(fail, []byte("# one wrong vowel\nbon\tfr\tb_ˈɔ\n"), 0o644))

	_, errOut, err := execute(t, newTestApp(), "", "check", pass)
	require.NoError(t, err)
	assert.Contains(t, errOut, "2 entries, 0 mismatches")

	out, errOut, err := execute(t, newTestApp(), "", "check", fail)
	assert.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out, "line 2 [fr]")
	assert.Contains(t, out, "distance 1")
	assert.Contains(t, errOut, "1 entries, 1 mismatches")
}

func TestConfig(t *testing.T) {
	out, _, err := execute(t, newTestApp(), "", "config", "-l", "fr")
	require.NoError(t, err)
	assert.Contains(t, out, "language: fr")
	assert.Contains(t, out, "binary: espeak-ng")
	assert.Contains(t, out, "timeout: 10s")
}

func TestPhonemize_Live(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("espeak-ng not installed")
	}

	out, _, err := execute(t, &app{newEngine: newEspeak}, "", "phonemize", "-l", "en-us", "Hello world!")
	if err != nil {
		t.Skipf("espeak-ng unusable: %v", err)
	}
	assert.NotContains(t, out, "^")
	assert.NotEmpty(t, strings.TrimSpace(out))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
