// Package router holds the page table of the admin UI and the guard that
// decides which page a navigation may land on.
package router

import (
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"wgcAdmin/internal/store"
)

// Route is one page of the UI.
type Route struct {
	Name string
	Path string
}

var (
	Loading  = Route{Name: "Loading", Path: "/"}
	Login    = Route{Name: "Login", Path: "/login"}
	Clients  = Route{Name: "Clients", Path: "/clients"}
	Users    = Route{Name: "Users", Path: "/users"}
	APIKeys  = Route{Name: "API Keys", Path: "/apikeys"}
	Settings = Route{Name: "Settings", Path: "/settings"}
)

// Routes lists every page in navigation order.
var Routes = []Route{Loading, Login, Clients, Users, APIKeys, Settings}

// Home is where a logged in user lands by default.
var Home = Clients

// maxRedirects bounds a single navigation. Any target settles in at most
// three hops; anything longer is a bug in the table.
const maxRedirects = 4

// Lookup finds the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Guard decides whether a navigation to path may proceed given the current
// state. When it may not, it returns the target to go to instead.
func Guard(path string, st store.State) (redirect string, ok bool) {
	// The loading page runs the session check and is always reachable.
	if path == Loading.Path {
		return "", true
	}

	if st.LoggedIn {
		if path == Login.Path {
			return Home.Path, false
		}
		return "", true
	}

	// The login page is only shown once the session check has failed;
	// before that we do not know whether the user is logged in.
	if path == Login.Path && st.Loaded {
		return "", true
	}

	q := url.Values{}
	q.Set("redirect", path)
	return Loading.Path + "?" + q.Encode(), false
}

// RedirectTarget returns where to go after the loading page, honouring a
// ?redirect= left by the guard when it names a real page.
func RedirectTarget(query url.Values) string {
	target := query.Get("redirect")
	r, ok := Lookup(target)
	if !ok || r == Loading || r == Login {
		return Home.Path
	}
	return r.Path
}

// Router applies the guard to navigations and reports the page that was
// finally accepted.
type Router struct {
	store      *store.Store
	log        zerolog.Logger
	onNavigate func(Route, url.Values)

	mu      sync.Mutex
	current Route
}

// New creates a router. onNavigate is called with the accepted route and
// its query after every navigation.
func New(st *store.Store, log zerolog.Logger, onNavigate func(Route, url.Values)) *Router {
	return &Router{
		store:      st,
		log:        log,
		onNavigate: onNavigate,
	}
}

// Navigate moves to target, which may carry a query string. Unknown paths
// fall back to the home page. It returns the route that was shown.
func (r *Router) Navigate(target string) Route {
	for i := 0; i < maxRedirects; i++ {
		u, err := url.Parse(target)
		if err != nil {
			r.log.Warn().Err(err).Str("target", target).Msg("bad navigation target")
			target = Home.Path
			continue
		}

		route, known := Lookup(u.Path)
		if !known {
			r.log.Debug().Str("path", u.Path).Msg("unknown route")
			target = Home.Path
			continue
		}

		redirect, ok := Guard(route.Path, r.store.Snapshot())
		if !ok {
			r.log.Debug().Str("from", route.Path).Str("to", redirect).Msg("navigation redirected")
			target = redirect
			continue
		}

		r.show(route, u.Query())
		return route
	}

	r.log.Error().Str("target", target).Msg("navigation did not settle")
	r.show(Loading, url.Values{})
	return Loading
}

// show is called without r.mu held so pages may navigate again from
// onNavigate.
func (r *Router) show(route Route, query url.Values) {
	r.mu.Lock()
	r.current = route
	r.mu.Unlock()

	if r.onNavigate != nil {
		r.onNavigate(route, query)
	}
}

// Current returns the page shown last.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
