package httpext

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func seededJar(t *testing.T) *Jar {
	t.Helper()
	jar := NewJar()
	jar.SetCookies(mustURL(t, "https://api.example.com/v1"), []*http.Cookie{
		{Name: "token", Value: "t1", Path: "/"},
		{Name: "lang", Value: "en", Path: "/"},
	})
	jar.SetCookies(mustURL(t, "https://other.test/"), []*http.Cookie{
		{Name: "sid", Value: "s1", Path: "/"},
	})
	return jar
}

func TestJar_List(t *testing.T) {
	jar := seededJar(t)

	assert.Equal(t, []Cookie{
		{Domain: "api.example.com", Name: "lang", Value: "en"},
		{Domain: "api.example.com", Name: "token", Value: "t1"},
		{Domain: "other.test", Name: "sid", Value: "s1"},
	}, jar.List())

	assert.Len(t, jar.Cookies(mustURL(t, "https://api.example.com/v2")), 2)
}

func TestJar_ClearDomain(t *testing.T) {
	jar := seededJar(t)

	assert.Equal(t, 2, jar.ClearDomain("example.com"))
	assert.Equal(t, []Cookie{{Domain: "other.test", Name: "sid", Value: "s1"}}, jar.List())

	assert.Equal(t, 0, jar.ClearDomain("nothing.test"))
	assert.Len(t, jar.List(), 1)
}

func TestJar_Clear(t *testing.T) {
	jar := seededJar(t)

	assert.Equal(t, 3, jar.Clear())
	assert.Empty(t, jar.List())
	assert.Empty(t, jar.Cookies(mustURL(t, "https://other.test/")))
}

func TestHostMatches(t *testing.T) {
	assert.True(t, hostMatches("example.com", "example.com"))
	assert.True(t, hostMatches("API.example.com", "example.com"))
	assert.False(t, hostMatches("badexample.com", "example.com"))
}
