package speech

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Config mirrors the knobs of a browser SpeechRecognition instance.
type Config struct {
	// Lang is a BCP 47 tag such as "pt-BR". Empty lets the backend detect it.
	Lang string
	// Continuous keeps listening after the first final result.
	Continuous bool
	// InterimResults surfaces results that may still change.
	InterimResults bool
	// MaxAlternatives is the number of ranked hypotheses per result group.
	MaxAlternatives int
}

// DefaultConfig is the note composer's configuration.
func DefaultConfig() Config {
	return Config{
		Lang:            "pt-BR",
		Continuous:      true,
		InterimResults:  true,
		MaxAlternatives: 1,
	}
}

// Validate checks the language tag and alternatives count.
func (c Config) Validate() error {
	if c.Lang != "" {
		if _, err := language.Parse(c.Lang); err != nil {
			return NewError(KindLanguageNotSupported, fmt.Errorf("invalid language tag %q: %w", c.Lang, err))
		}
	}

	if c.MaxAlternatives < 1 {
		return errors.New("max alternatives must be at least 1")
	}

	return nil
}

// BaseLanguage returns the ISO 639-1 language of Lang ("pt" for "pt-BR"),
// or "" when Lang is empty or invalid.
func (c Config) BaseLanguage() string {
	if c.Lang == "" {
		return ""
	}

	tag, err := language.Parse(c.Lang)
	if err != nil {
		return ""
	}

	base, _ := tag.Base()

	return base.String()
}
