package httpext

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Cookie is a stored cookie as seen by a later request to its origin.
type Cookie struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

// Jar is a cookie jar that remembers which origins it has seen so its
// contents can be listed and cleared per domain.
type Jar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	origins map[string]*url.URL
}

// NewJar creates an empty jar using the public suffix list.
func NewJar() *Jar {
	return &Jar{
		jar:     newCookieJar(),
		origins: map[string]*url.URL{},
	}
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(cookies) > 0 {
		j.origins[originKey(u)] = originURL(u)
	}
	j.jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// List returns every cookie reachable from a known origin, sorted by domain
// and name.
func (j *Jar) List() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []Cookie
	for _, u := range j.origins {
		for _, c := range j.jar.Cookies(u) {
			out = append(out, Cookie{Domain: u.Hostname(), Name: c.Name, Value: c.Value})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Domain != out[b].Domain {
			return out[a].Domain < out[b].Domain
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Clear removes every cookie and returns how many were visible.
func (j *Jar) Clear() int {
	return j.ClearDomain("")
}

// ClearDomain removes cookies for hosts equal to or below domain. An empty
// domain clears everything. Cookies of other origins are kept with their name
// and value; their attributes are not preserved.
func (j *Jar) ClearDomain(domain string) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	fresh := newCookieJar()
	kept := map[string]*url.URL{}
	removed := 0

	for key, u := range j.origins {
		cookies := j.jar.Cookies(u)
		if domain == "" || hostMatches(u.Hostname(), domain) {
			removed += len(cookies)
			continue
		}
		if len(cookies) > 0 {
			fresh.SetCookies(u, cookies)
			kept[key] = u
		}
	}

	j.jar = fresh
	j.origins = kept
	return removed
}

func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func originKey(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func originURL(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}
