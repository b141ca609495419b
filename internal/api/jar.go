package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

const sessionCookie = "sessionId"

// sessionJar is a cookie jar that can be emptied on logout while requests
// are in flight.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := newCookieJar()
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: jar}, nil
}

func newCookieJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return jar, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// Reset drops every stored cookie.
func (j *sessionJar) Reset() error {
	jar, err := newCookieJar()
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}
