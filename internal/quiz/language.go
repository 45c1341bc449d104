package quiz

import (
	"fmt"
	"strings"
)

// Language is the language questions are generated and shown in.
type Language string

const (
	Italian    Language = "it"
	English    Language = "en"
	Portuguese Language = "pt"
	Spanish    Language = "es"
	French     Language = "fr"
	German     Language = "de"
)

var languages = []Language{Italian, English, Portuguese, Spanish, French, German}

var languageNames = map[Language][2]string{
	Italian:    {"Italian", "Italiano"},
	English:    {"English", "English"},
	Portuguese: {"Portuguese", "Português"},
	Spanish:    {"Spanish", "Español"},
	French:     {"French", "Français"},
	German:     {"German", "Deutsch"},
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name returns the English name of the language, e.g. "Italian".
func (l Language) Name() string {
	return languageNames[l][0]
}

// Native returns the language's name for itself, e.g. "Italiano".
func (l Language) Native() string {
	return languageNames[l][1]
}

// ParseLanguage parses an ISO 639-1 code.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}
