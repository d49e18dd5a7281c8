package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBankIsValid(t *testing.T) {
	bank := DefaultBank()
	require.NotEmpty(t, bank.Title)
	require.Len(t, bank.Questions, 4)
	for _, q := range bank.Questions {
		require.Len(t, q.Options, NumCategories)
	}
}

func TestLoadBankEmptyPathUsesDefault(t *testing.T) {
	bank, err := LoadBank("  ")
	require.NoError(t, err)
	require.Equal(t, DefaultBank(), bank)
}

func TestLoadBankFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	data := []byte(`
title: "  Mini  "
questions:
  - prompt: Pick one
    options: [" red ", blue]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	bank, err := LoadBank(path)
	require.NoError(t, err)
	require.Equal(t, "Mini", bank.Title)
	require.Equal(t, []string{"red", "blue"}, bank.Questions[0].Options)
}

func TestParseBankValidation(t *testing.T) {
	cases := map[string]string{
		"no questions":  `title: empty`,
		"no prompt":     "questions:\n  - options: [a]\n",
		"no options":    "questions:\n  - prompt: p\n",
		"too many":      "questions:\n  - prompt: p\n    options: [a, b, c, d, e]\n",
		"empty option":  "questions:\n  - prompt: p\n    options: [a, '']\n",
		"duplicate opt": "questions:\n  - prompt: p\n    options: [a, a]\n",
		"bad yaml":      "questions: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBank([]byte(raw))
			require.Error(t, err)
		})
	}

	_, err := ParseBank([]byte(`title: empty`))
	require.True(t, errors.Is(err, ErrNoQuestions))
	_, err = ParseBank([]byte("questions:\n  - prompt: p\n    options: [a, b, c, d, e]\n"))
	require.ErrorIs(t, err, ErrTooManyOptions)
	require.True(t, strings.HasPrefix(err.Error(), "quiz: questions[0] has 5 options"), err.Error())
}

func TestLoadBankMissingFile(t *testing.T) {
	_, err := LoadBank(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
