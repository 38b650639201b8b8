// Package routes is the portal's page table and its navigation guards.
package routes

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-portal-client/redirect"
)

const (
	LoginPath = "/login"
	HomePath  = "/"

	// RedirectParam carries the originally requested path through the login page.
	RedirectParam = "redirect"
)

type Route struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Title         string `json:"title"`
	RequiresAuth  bool   `json:"requires_auth"`
	RequiresAdmin bool   `json:"requires_admin"`
}

var table = []Route{
	{Name: "Home", Path: "/", Title: "Home", RequiresAuth: true},
	{Name: "Login", Path: "/login", Title: "Sign In"},
	{Name: "Register", Path: "/register", Title: "Register"},
	{Name: "Users", Path: "/users", Title: "Users", RequiresAuth: true, RequiresAdmin: true},
	{Name: "Employees", Path: "/employees", Title: "Employees", RequiresAuth: true, RequiresAdmin: true},
	{Name: "Schedules", Path: "/schedules", Title: "Schedules", RequiresAuth: true},
	{Name: "Messages", Path: "/messages", Title: "Messages", RequiresAuth: true},
	{Name: "Approvals", Path: "/approvals", Title: "Approvals", RequiresAuth: true},
	{Name: "SSOAdmin", Path: "/admin/sso", Title: "SSO Providers", RequiresAuth: true, RequiresAdmin: true},
}

var notFound = Route{Name: "NotFound", Title: "Page Not Found"}

// Viewer is whoever is navigating; *session.Manager satisfies it.
type Viewer interface {
	IsLoggedIn() bool
	IsAdmin() bool
}

// Resolution is the outcome of navigating to a path. A non-empty Redirect means
// the navigation must go there instead.
type Resolution struct {
	Route    Route  `json:"route"`
	Title    string `json:"title"`
	Redirect string `json:"redirect,omitempty"`
}

type Router struct {
	appName string
}

func NewRouter(appName string) *Router {
	if appName == "" {
		appName = "Portal"
	}
	return &Router{appName: appName}
}

// Routes returns the page table.
func (r *Router) Routes() []Route {
	return append([]Route(nil), table...)
}

// Resolve matches rawPath (query and fragment allowed) and applies the guards:
// unauthenticated viewers of a protected page go to the login page, non-admins
// of an admin page go home.
func (r *Router) Resolve(rawPath string, viewer Viewer) Resolution {
	route := match(rawPath)
	res := Resolution{Route: route, Title: route.Title + " | " + r.appName}

	switch {
	case route.RequiresAuth && !viewer.IsLoggedIn():
		res.Redirect = LoginPath + "?" + url.Values{RedirectParam: {rawPath}}.Encode()
	case route.RequiresAdmin && !viewer.IsAdmin():
		res.Redirect = HomePath
	}
	return res
}

// AfterLogin picks where to go once logged in: the redirect query parameter if it
// is a same-origin path the validator accepts, otherwise home.
func AfterLogin(query string, v *redirect.Validator) string {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return HomePath
	}
	target := values.Get(RedirectParam)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || !v.IsAllowed(target) {
		return HomePath
	}
	return target
}

func match(rawPath string) Route {
	path := rawPath
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}

	for _, route := range table {
		if route.Path == path {
			return route
		}
	}
	nf := notFound
	nf.Path = path
	return nf
}
