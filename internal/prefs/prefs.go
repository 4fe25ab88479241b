package prefs

import (
	"context"
	"errors"
	"slices"

	"marketplace-be/internal/session"
)

const DefaultLanguage = "vi"

var Languages = []string{"vi", "en"}

var ErrUnsupportedLanguage = errors.New("unsupported language")

type Preferences struct {
	Language string `json:"language"`
}

// Provider reads and writes the preferences of one session. It is created
// per request and carried on the request context; nothing is kept in
// package state.
type Provider struct {
	store     session.Store
	sessionID string
}

func NewProvider(store session.Store, sessionID string) *Provider {
	return &Provider{store: store, sessionID: sessionID}
}

func (p *Provider) Get(ctx context.Context) (Preferences, error) {
	lang, ok, err := session.GetJSON[string](ctx, p.store, p.sessionID, session.KeyLanguage)
	if err != nil {
		return Preferences{}, err
	}
	if !ok || !slices.Contains(Languages, lang) {
		lang = DefaultLanguage
	}
	return Preferences{Language: lang}, nil
}

// Language returns the session language, falling back to the default on
// any storage error.
func (p *Provider) Language(ctx context.Context) string {
	prefs, err := p.Get(ctx)
	if err != nil {
		return DefaultLanguage
	}
	return prefs.Language
}

func (p *Provider) SetLanguage(ctx context.Context, lang string) error {
	if !slices.Contains(Languages, lang) {
		return ErrUnsupportedLanguage
	}
	return session.SetJSON(ctx, p.store, p.sessionID, session.KeyLanguage, lang)
}

// Reset drops the stored preferences so the defaults apply again.
func (p *Provider) Reset(ctx context.Context) error {
	return p.store.Delete(ctx, p.sessionID, session.KeyLanguage)
}

type ctxKey string

const providerKey ctxKey = "prefs"

func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey, p)
}

func FromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(providerKey).(*Provider)
	return p, ok
}

// LanguageFrom returns the language of the request's session, or the
// default when no provider is attached.
func LanguageFrom(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.Language(ctx)
	}
	return DefaultLanguage
}
