package prefs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-be/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	store := session.NewCacheStore(time.Minute)
	p := NewProvider(store, "s1")

	prefs, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, prefs.Language)

	require.NoError(t, p.SetLanguage(ctx, "en"))
	assert.Equal(t, "en", p.Language(ctx))

	assert.ErrorIs(t, p.SetLanguage(ctx, "fr"), ErrUnsupportedLanguage)
	assert.Equal(t, "en", p.Language(ctx))

	other := NewProvider(store, "s2")
	assert.Equal(t, DefaultLanguage, other.Language(ctx), "preferences are per session")

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, DefaultLanguage, p.Language(ctx))
}

func TestProvider_UnknownStoredValue(t *testing.T) {
	ctx := context.Background()
	store := session.NewCacheStore(time.Minute)
	require.NoError(t, store.Set(ctx, "s1", session.KeyLanguage, []byte(`"de"`)))

	assert.Equal(t, DefaultLanguage, NewProvider(store, "s1").Language(ctx))
}

func TestLanguageFrom(t *testing.T) {
	assert.Equal(t, DefaultLanguage, LanguageFrom(context.Background()))

	store := session.NewCacheStore(time.Minute)
	p := NewProvider(store, "s1")
	require.NoError(t, p.SetLanguage(context.Background(), "en"))

	ctx := WithProvider(context.Background(), p)
	assert.Equal(t, "en", LanguageFrom(ctx))
}

func TestMiddleware(t *testing.T) {
	store := session.NewCacheStore(time.Minute)
	require.NoError(t, NewProvider(store, "s1").SetLanguage(context.Background(), "en"))

	var got string
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LanguageFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithID(req.Context(), "s1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "en", got)
	assert.Equal(t, "en", w.Header().Get("Content-Language"))
}
