package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/jrsteele09/go-portal-client/internal/fakeportal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testUID      = "jdoe"
	testPassword = "secret123"
	testAdminUID = "admin"
)

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

type testFixture struct {
	backend *fakeportal.Server
	server  *httptest.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	backend := fakeportal.New()
	backend.AddUser(fakeportal.User{UID: testUID, Email: "jdoe@example.com", Name: "John Doe", Password: testPassword})
	backend.AddUser(fakeportal.User{UID: testAdminUID, Email: "admin@example.com", Name: "Admin", Password: testPassword, Role: api.RoleAdmin})

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return &testFixture{backend: backend, server: server}
}

func (f *testFixture) client(t *testing.T, opts ...api.Option) *api.Client {
	t.Helper()
	c, err := api.New(f.server.URL, opts...)
	require.NoError(t, err)
	return c
}

func (f *testFixture) authedClient(t *testing.T, uid string, opts ...api.Option) *api.Client {
	t.Helper()
	token := f.backend.IssueToken(uid)
	opts = append(opts, api.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})))
	return f.client(t, opts...)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := api.New("ftp://example.com")
	require.Error(t, err)

	_, err = api.New("://bad")
	require.Error(t, err)
}

func TestUsers_LoginThenMe(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	login, err := f.client(t).Users.Login(ctx, testUID, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
	require.Equal(t, 3600, login.ExpiresIn)
	require.Equal(t, testUID, login.User.UID)

	c := f.client(t, api.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: login.AccessToken})))
	me, err := c.Users.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, testUID, me.UID)
	require.Equal(t, "John Doe", me.Profile.Name)
}

func TestUsers_LoginByEmail(t *testing.T) {
	f := setupTestFixture(t)

	login, err := f.client(t).Users.Login(context.Background(), "JDOE@example.com", testPassword)
	require.NoError(t, err)
	require.Equal(t, testUID, login.User.UID)
}

func TestUsers_LoginWrongPassword(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.client(t).Users.Login(context.Background(), testUID, "nope")
	require.Error(t, err)
	require.True(t, api.IsUnauthorized(err))

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "loginUser", apiErr.Operation)
	require.Contains(t, string(apiErr.Body), "Incorrect username or password")
}

func TestClient_NoTokenSourceIsUnauthenticated(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.client(t).Users.Me(context.Background())
	require.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
	require.Equal(t, "", f.backend.AuthHeaders()[0])
}

func TestClient_TokenSourceErrorSendsNoHeader(t *testing.T) {
	f := setupTestFixture(t)
	c := f.client(t, api.WithTokenSource(tokenFunc(func() (*oauth2.Token, error) {
		return nil, perrors.ErrSessionExpired
	})))

	_, err := c.Users.Me(context.Background())
	require.True(t, api.IsUnauthorized(err))
	require.Equal(t, []string{""}, f.backend.AuthHeaders())
}

func TestClient_BearerHeaderFromTokenSource(t *testing.T) {
	f := setupTestFixture(t)
	c := f.authedClient(t, testUID)

	_, err := c.Users.Me(context.Background())
	require.NoError(t, err)

	headers := f.backend.AuthHeaders()
	require.Len(t, headers, 1)
	require.True(t, strings.HasPrefix(headers[0], "Bearer "))
}

func TestUsers_CreateDuplicateIsValidationError(t *testing.T) {
	f := setupTestFixture(t)

	err := f.client(t).Users.Create(context.Background(), api.UserSchema{
		UID:       testUID,
		Pwd:       "another1",
		Email:     "dup@example.com",
		Name:      "Dup",
		Birthdate: "1990-01-01",
		Role:      api.RoleUser,
	})
	require.Error(t, err)
	require.True(t, api.IsValidation(err))

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Validation)
	require.Equal(t, "uid already registered", apiErr.Validation.Detail[0].Msg)
	require.Contains(t, apiErr.Error(), "body.uid: uid already registered")
}

func TestUsers_CreateRejectedClientSide(t *testing.T) {
	f := setupTestFixture(t)

	err := f.client(t).Users.Create(context.Background(), api.UserSchema{UID: "x", Pwd: "123", Email: "not-an-email", Name: "X", Birthdate: "2000-01-01", Role: api.RoleUser})
	require.ErrorIs(t, err, perrors.ErrInvalidRequest)
	require.Equal(t, 0, f.backend.Requests("POST "+api.PathUsersCreate))
}

func TestUsers_ListRequiresAdmin(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.authedClient(t, testUID).Users.List(ctx, 1, 20)
	require.Equal(t, http.StatusForbidden, api.StatusCode(err))

	page, err := f.authedClient(t, testAdminUID).Users.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, testAdminUID, page.Items[0].UID)
}

func TestUsers_UploadAvatar(t *testing.T) {
	f := setupTestFixture(t)

	err := f.authedClient(t, testUID).Users.UploadAvatar(context.Background(), api.Upload{
		FileName:    "me.png",
		ContentType: "image/png",
		Content:     strings.NewReader("\x89PNG"),
	})
	require.NoError(t, err)
}

func TestEmployees_AssignValidatesUUID(t *testing.T) {
	f := setupTestFixture(t)
	c := f.authedClient(t, testAdminUID)
	ctx := context.Background()

	_, err := c.Employees.Assign(ctx, api.AssignEmployeeRequest{UserID: "not-a-uuid", IDNo: "E001", Department: "IT", RoleID: 1})
	require.ErrorIs(t, err, perrors.ErrInvalidRequest)

	resp, err := c.Employees.Assign(ctx, api.AssignEmployeeRequest{
		UserID:     "0b6f5b5e-3f54-4a4b-9c43-3a1d1f3b9a11",
		IDNo:       "E001",
		Department: "IT",
		RoleID:     2,
	})
	require.NoError(t, err)
	require.Equal(t, "E001", resp.IDNo)
	require.Equal(t, 2, resp.Role.ID)
}

func TestEmployees_UploadCSV(t *testing.T) {
	f := setupTestFixture(t)

	csv := "idno,department\nE001,IT\n,HR\nE003,Sales\n"
	resp, err := f.authedClient(t, testAdminUID).Employees.UploadCSV(context.Background(), api.Upload{
		FileName: "employees.csv",
		Content:  strings.NewReader(csv),
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, 2, resp.SuccessCount)
	require.Equal(t, 1, resp.FailureCount)
	require.False(t, resp.Results[1].Success)
}

func TestSSO_SAMLACSIsFormEncoded(t *testing.T) {
	f := setupTestFixture(t)
	c := f.client(t)
	ctx := context.Background()

	require.NoError(t, c.SSO.SAMLACS(ctx, "corp", "PHNhbWw+", "state"))

	err := c.SSO.SAMLACS(ctx, "corp", "", "")
	require.True(t, api.IsValidation(err))
}

func TestTasks_MissingTaskID(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.authedClient(t, testUID).Tasks.Status(context.Background(), "")
	require.ErrorIs(t, err, perrors.ErrMissingPathArg)
}

func TestTasks_StatusCancelResult(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.ScriptTask("t-1",
		api.TaskStatusResponse{Status: api.TaskProgress, Progress: &api.TaskProgressInfo{Current: 1, Total: 4}},
		api.TaskStatusResponse{Status: api.TaskSuccess, Result: []byte(`{"rows":4}`)},
	)
	c := f.authedClient(t, testUID)
	ctx := context.Background()

	status, err := c.Tasks.Status(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, api.TaskProgress, status.Status)
	require.Equal(t, 25.0, status.Progress.Percent())

	status, err = c.Tasks.Status(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, api.TaskSuccess, status.Status)
	require.JSONEq(t, `{"rows":4}`, string(status.Result))

	result, err := c.Tasks.Result(ctx, "t-1")
	require.NoError(t, err)
	require.JSONEq(t, `{"rows":4}`, string(result))

	require.NoError(t, c.Tasks.Cancel(ctx, "t-1"))
	require.True(t, f.backend.Cancelled("t-1"))
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	for _, s := range []api.TaskStatus{api.TaskPending, api.TaskStarted, api.TaskProgress} {
		require.False(t, s.IsTerminal(), s)
	}
	for _, s := range []api.TaskStatus{api.TaskSuccess, api.TaskFailure, api.TaskRevoked, "UNKNOWN"} {
		require.True(t, s.IsTerminal(), s)
	}
	require.False(t, api.TaskStatus("UNKNOWN").Valid())
}

func TestClient_Metrics(t *testing.T) {
	f := setupTestFixture(t)
	reg := prometheus.NewRegistry()
	metrics, err := api.NewMetrics(reg)
	require.NoError(t, err)

	again, err := api.NewMetrics(reg)
	require.NoError(t, err)

	c := f.authedClient(t, testUID, api.WithMetrics(metrics))
	_, err = c.Users.Me(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests("getCurrentUser", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(again.Requests("getCurrentUser", "200")))
}

func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	f := setupTestFixture(t)
	c := f.client(t)
	f.server.Close()

	_, err := c.Users.Login(context.Background(), testUID, testPassword)
	require.Error(t, err)
	require.Equal(t, 0, api.StatusCode(err))
}

func TestOAuth_GoogleLoginURL(t *testing.T) {
	c, err := api.New("https://portal.example.com/api/")
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com/api/auth/google/login", c.OAuth.GoogleLoginURL())
}

func TestClient_TimeoutLeavesCallerClientUntouched(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	own := &http.Client{}
	c, err := api.New(slow.URL, api.WithHTTPClient(own), api.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Users.Me(context.Background())
	require.Error(t, err)
	var apiErr *api.APIError
	require.False(t, perrors.As(err, &apiErr))
	require.Zero(t, own.Timeout)
}
