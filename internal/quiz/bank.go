package quiz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoQuestions is returned for a bank without questions.
	ErrNoQuestions = errors.New("quiz: bank has no questions")
	// ErrTooManyOptions is returned when a question offers more options than categories.
	ErrTooManyOptions = errors.New("quiz: too many options")
)

//go:embed default_bank.yaml
var defaultBankYAML []byte

// Bank is a titled, ordered set of questions.
type Bank struct {
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

// DefaultBank returns the built-in question bank.
func DefaultBank() Bank {
	bank, err := ParseBank(defaultBankYAML)
	if err != nil {
		panic(fmt.Sprintf("quiz: built-in bank is invalid: %v", err))
	}
	return bank
}

// LoadBank reads a YAML bank from disk. An empty path yields the built-in bank.
func LoadBank(path string) (Bank, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultBank(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("quiz: read %s: %w", path, err)
	}
	bank, err := ParseBank(data)
	if err != nil {
		return Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// ParseBank decodes and validates a YAML bank.
func ParseBank(data []byte) (Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return Bank{}, fmt.Errorf("quiz: parse bank: %w", err)
	}
	bank.normalize()
	if err := bank.validate(); err != nil {
		return Bank{}, err
	}
	return bank, nil
}

func (b *Bank) normalize() {
	b.Title = strings.TrimSpace(b.Title)
	for i := range b.Questions {
		q := &b.Questions[i]
		q.Prompt = strings.TrimSpace(q.Prompt)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
}

func (b Bank) validate() error {
	if len(b.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range b.Questions {
		if q.Prompt == "" {
			return fmt.Errorf("quiz: questions[%d]: prompt is required", i)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("quiz: questions[%d]: at least one option is required", i)
		}
		if len(q.Options) > NumCategories {
			return fmt.Errorf("quiz: questions[%d] has %d options: %w", i, len(q.Options), ErrTooManyOptions)
		}
		seen := map[string]struct{}{}
		for j, opt := range q.Options {
			if opt == "" {
				return fmt.Errorf("quiz: questions[%d].options[%d]: empty option", i, j)
			}
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("quiz: questions[%d]: duplicate option %q", i, opt)
			}
			seen[opt] = struct{}{}
		}
	}
	return nil
}
