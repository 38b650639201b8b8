package routes_test

import (
	"testing"

	"github.com/jrsteele09/go-portal-client/redirect"
	"github.com/jrsteele09/go-portal-client/routes"
	"github.com/stretchr/testify/require"
)

type viewer struct {
	loggedIn bool
	admin    bool
}

func (v viewer) IsLoggedIn() bool { return v.loggedIn }
func (v viewer) IsAdmin() bool    { return v.loggedIn && v.admin }

var (
	anonymous = viewer{}
	member    = viewer{loggedIn: true}
	admin     = viewer{loggedIn: true, admin: true}
)

func TestRouter_Resolve(t *testing.T) {
	r := routes.NewRouter("")

	tests := []struct {
		name     string
		path     string
		viewer   viewer
		route    string
		title    string
		redirect string
	}{
		{"Login is public", "/login", anonymous, "Login", "Sign In | Portal", ""},
		{"Register is public", "/register", anonymous, "Register", "Register | Portal", ""},
		{"Home needs login", "/", anonymous, "Home", "Home | Portal", "/login?redirect=%2F"},
		{"Home for member", "/", member, "Home", "Home | Portal", ""},
		{"Protected page keeps query", "/schedules?week=3", anonymous, "Schedules", "Schedules | Portal", "/login?redirect=%2Fschedules%3Fweek%3D3"},
		{"Trailing slash", "/messages/", member, "Messages", "Messages | Portal", ""},
		{"Admin page for member", "/users", member, "Users", "Users | Portal", "/"},
		{"Admin page for anonymous", "/employees", anonymous, "Employees", "Employees | Portal", "/login?redirect=%2Femployees"},
		{"Admin page for admin", "/admin/sso", admin, "SSOAdmin", "SSO Providers | Portal", ""},
		{"Unknown page", "/nope/deeper", anonymous, "NotFound", "Page Not Found | Portal", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.path, tt.viewer)
			require.Equal(t, tt.route, res.Route.Name)
			require.Equal(t, tt.title, res.Title)
			require.Equal(t, tt.redirect, res.Redirect)
		})
	}
}

func TestRouter_AppName(t *testing.T) {
	res := routes.NewRouter("Acme").Resolve("/login", anonymous)
	require.Equal(t, "Sign In | Acme", res.Title)
}

func TestRouter_RoutesIsACopy(t *testing.T) {
	r := routes.NewRouter("")
	list := r.Routes()
	list[0].RequiresAuth = false

	require.Equal(t, "/login?redirect=%2F", r.Resolve("/", anonymous).Redirect)
}

func TestAfterLogin(t *testing.T) {
	v, err := redirect.NewValidator("https://portal.example.com", []string{"accounts.google.com"})
	require.NoError(t, err)

	require.Equal(t, "/schedules?week=3", routes.AfterLogin("?redirect=%2Fschedules%3Fweek%3D3", v))
	require.Equal(t, "/", routes.AfterLogin("", v))
	require.Equal(t, "/", routes.AfterLogin("redirect=https%3A%2F%2Fevil.com", v))
	require.Equal(t, "/", routes.AfterLogin("redirect=%2F%2Fevil.com", v))
	require.Equal(t, "/", routes.AfterLogin("redirect=https%3A%2F%2Faccounts.google.com%2F", v))
	require.Equal(t, "/", routes.AfterLogin("redirect=%zz", v))
}
