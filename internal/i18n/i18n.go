// Package i18n localizes the labels of the CLI text output and calendar summaries.
package i18n

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-panchanga/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs in one language.
type Translator struct {
	// Languages lists the embedded locale codes, in directory order.
	Languages []string

	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      language.Tag
}

// New loads the embedded locales and selects the best match for lang.
// Unknown or empty languages fall back to English.
func New(lang string) *Translator {
	t := &Translator{bundle: goi18n.NewBundle(language.English)}
	t.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := t.bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language to the closest loaded match.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	tags := t.bundle.LanguageTags()
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(language.Make(lang))
	t.lang = tags[idx]
	t.localizer = goi18n.NewLocalizer(t.bundle, t.lang.String())
}

// Language returns the BCP 47 tag of the active language.
func (t *Translator) Language() string { return t.lang.String() }

// Msg is a helper to translate a key safely. A missing key returns the key itself.
func (t *Translator) Msg(key string) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Label is Msg for optional labels: it returns "" when the key is unknown.
func (t *Translator) Label(key string) string {
	if msg := t.Msg(key); msg != key {
		return msg
	}
	return ""
}
