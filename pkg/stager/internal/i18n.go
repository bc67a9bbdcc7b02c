package internal

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer resolves message ids against translation files.
type Localizer struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewLocalizer creates a Localizer for locale, loading every translation file.
// Files are named by language, for example "active.fr.toml". An empty or
// malformed locale falls back to English.
func NewLocalizer(locale string, files ...string) (*Localizer, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			GetInternalLogger().Warn("Invalid locale; using English", "locale", locale, "error", err)
		} else {
			tag = parsed
		}
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("loading translations %s: %w", file, err)
		}
	}

	return &Localizer{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		tag:       tag,
	}, nil
}

// Tag returns the language the Localizer was created for.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Localize returns the translation of id, or id itself when none exists.
func (l *Localizer) Localize(id string) string {
	if l == nil || id == "" {
		return id
	}

	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: id},
	})
	if err != nil {
		GetInternalLogger().Debug("Translation missing", "id", id, "locale", l.tag.String(), "error", err)
	}
	if msg == "" {
		return id
	}
	return msg
}
