// Package i18n は利用者向けのフォールバックメッセージを翻訳します
package i18n

import (
	"embed"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.ja.toml"}

// メッセージID
const (
	EventsLoadFailed        = "EventsLoadFailed"
	EventLoadFailed         = "EventLoadFailed"
	EventDetailsLoadFailed  = "EventDetailsLoadFailed"
	RegistrationsLoadFailed = "RegistrationsLoadFailed"
	WishlistLoadFailed      = "WishlistLoadFailed"
	WishlistUpdateFailed    = "WishlistUpdateFailed"
	AttendeesLoadFailed     = "AttendeesLoadFailed"
	FeedbackLoadFailed      = "FeedbackLoadFailed"
	ProfileLoadFailed       = "ProfileLoadFailed"
	ProfileUpdateFailed     = "ProfileUpdateFailed"
	LoginFailed             = "LoginFailed"
	SignupFailed            = "SignupFailed"
	RegisterFailed          = "RegisterFailed"
	UnregisterFailed        = "UnregisterFailed"
	ReviewSubmitFailed      = "ReviewSubmitFailed"
	EventSaveFailed         = "EventSaveFailed"
	EventDeleteFailed       = "EventDeleteFailed"
)

// Translator は go-i18n の Bundle をラップします
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewTranslator は指定したロケールの Translator を作成します
// 解析できないロケールは英語として扱います
func NewTranslator(locale string) *Translator {
	tag, err := language.Parse(locale)
	if err != nil {
		if locale != "" {
			log.Printf("i18n: unknown locale %q, using en", locale)
		}
		tag = language.English
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		tag:       tag,
	}
}

// Locale はTranslatorのロケールを返します
func (t *Translator) Locale() string {
	return t.tag.String()
}

// T はメッセージIDに対応する文言を返します
// 見つからない場合はIDをそのまま返します
func (t *Translator) T(id string) string {
	if t == nil || id == "" {
		return id
	}

	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		log.Printf("i18n: localize failed (id=%s, locale=%s): %v", id, t.tag, err)
		return id
	}
	return msg
}
