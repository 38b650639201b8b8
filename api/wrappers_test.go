package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/internal/utils"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
}

// newRecorder answers every request with an empty JSON object and keeps the last one.
func newRecorder(t *testing.T) (*api.Client, func() recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var last recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		last = recordedRequest{
			method:      r.Method,
			path:        r.URL.EscapedPath(),
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			body:        string(data),
		}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	c, err := api.New(server.URL)
	require.NoError(t, err)
	return c, func() recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestServiceWrappers(t *testing.T) {
	c, last := newRecorder(t)

	oidc := &api.OIDCConfigRequest{
		ClientID:         "c",
		ClientSecret:     "s",
		AuthorizationURL: "https://idp.example.com/auth",
		TokenURL:         "https://idp.example.com/token",
	}

	tests := []struct {
		name   string
		call   func(ctx context.Context) error
		method string
		path   string
		query  string
		body   string // JSON, empty when no body is sent
		form   string
	}{
		// schedules
		{
			name: "list schedules",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.List(ctx, api.ScheduleQuery{Page: 2, Size: 5, StartFrom: "2024-01-01"})
				return err
			},
			method: "GET", path: "/schedules/", query: "page=2&size=5&start_from=2024-01-01",
		},
		{
			name: "create schedule",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.Create(ctx, api.CreateScheduleRequest{Title: "Standup", StartTime: "09:00", EndTime: "09:15"})
				return err
			},
			method: "POST", path: "/schedules/", body: `{"title":"Standup","start_time":"09:00","end_time":"09:15"}`,
		},
		{
			name: "get schedule escapes id",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.Get(ctx, "a/b")
				return err
			},
			method: "GET", path: "/schedules/a%2Fb",
		},
		{
			name: "update schedule",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.Update(ctx, "s1", api.UpdateScheduleRequest{Title: utils.Ptr("Retro")})
				return err
			},
			method: "PUT", path: "/schedules/s1", body: `{"title":"Retro"}`,
		},
		{
			name: "delete schedule",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.Delete(ctx, "s1")
				return err
			},
			method: "DELETE", path: "/schedules/s1",
		},
		{
			name: "sync schedule",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.Sync(ctx, "s1")
				return err
			},
			method: "POST", path: "/schedules/s1/sync",
		},
		{
			name: "google status",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.GoogleStatus(ctx)
				return err
			},
			method: "GET", path: "/schedules/google/status",
		},
		{
			name: "google auth url",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.GoogleAuthURL(ctx)
				return err
			},
			method: "GET", path: "/schedules/google/auth",
		},
		{
			name: "disconnect google",
			call: func(ctx context.Context) error {
				_, err := c.Schedules.DisconnectGoogle(ctx)
				return err
			},
			method: "DELETE", path: "/schedules/google/disconnect",
		},

		// messages
		{
			name: "send message",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Send(ctx, api.SendMessageRequest{RecipientID: "u2", Subject: "Hi", Content: "Hello"})
				return err
			},
			method: "POST", path: "/messages/", body: `{"recipient_id":"u2","subject":"Hi","content":"Hello"}`,
		},
		{
			name: "reply",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Reply(ctx, 7, api.ReplyMessageRequest{Content: "Thanks"})
				return err
			},
			method: "POST", path: "/messages/7/reply", body: `{"content":"Thanks"}`,
		},
		{
			name: "inbox",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Inbox(ctx, 1, 10)
				return err
			},
			method: "GET", path: "/messages/inbox", query: "page=1&size=10",
		},
		{
			name: "sent defaults paging",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Sent(ctx, 0, 0)
				return err
			},
			method: "GET", path: "/messages/sent", query: "page=1&size=20",
		},
		{
			name: "unread count",
			call: func(ctx context.Context) error {
				_, err := c.Messages.UnreadCount(ctx)
				return err
			},
			method: "GET", path: "/messages/unread-count",
		},
		{
			name: "get message",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Get(ctx, 7)
				return err
			},
			method: "GET", path: "/messages/7",
		},
		{
			name: "delete message",
			call: func(ctx context.Context) error {
				_, err := c.Messages.Delete(ctx, 7)
				return err
			},
			method: "DELETE", path: "/messages/7",
		},
		{
			name: "mark read",
			call: func(ctx context.Context) error {
				_, err := c.Messages.MarkRead(ctx, 7)
				return err
			},
			method: "PUT", path: "/messages/7/read",
		},
		{
			name: "batch mark read",
			call: func(ctx context.Context) error {
				_, err := c.Messages.BatchMarkRead(ctx, 1, 2)
				return err
			},
			method: "PUT", path: "/messages/batch-read", body: `{"message_ids":[1,2]}`,
		},

		// approvals
		{
			name: "create leave",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.CreateLeave(ctx, api.CreateLeaveRequest{LeaveType: "annual", StartDate: "2024-05-01", EndDate: "2024-05-03", Reason: "trip"})
				return err
			},
			method: "POST", path: "/approvals/leave",
			body: `{"leave_type":"annual","start_date":"2024-05-01","end_date":"2024-05-03","reason":"trip"}`,
		},
		{
			name: "create expense",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.CreateExpense(ctx, api.CreateExpenseRequest{Amount: 12.5, Category: "travel", Description: "taxi"})
				return err
			},
			method: "POST", path: "/approvals/expense", body: `{"amount":12.5,"category":"travel","description":"taxi"}`,
		},
		{
			name: "my requests by status",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Mine(ctx, 1, 10, api.ApprovalPending)
				return err
			},
			method: "GET", path: "/approvals/my-requests", query: "page=1&size=10&status=pending",
		},
		{
			name: "pending approvals",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Pending(ctx, 2, 5)
				return err
			},
			method: "GET", path: "/approvals/pending", query: "page=2&size=5",
		},
		{
			name: "approval detail",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Get(ctx, "r1")
				return err
			},
			method: "GET", path: "/approvals/r1",
		},
		{
			name: "approve with comment",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Approve(ctx, "r1", utils.Ptr("ok"))
				return err
			},
			method: "POST", path: "/approvals/r1/approve", body: `{"comment":"ok"}`,
		},
		{
			name: "reject without comment",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Reject(ctx, "r1", nil)
				return err
			},
			method: "POST", path: "/approvals/r1/reject", body: `{}`,
		},
		{
			name: "cancel request",
			call: func(ctx context.Context) error {
				_, err := c.Approvals.Cancel(ctx, "r1")
				return err
			},
			method: "POST", path: "/approvals/r1/cancel",
		},

		// sso
		{
			name: "providers",
			call: func(ctx context.Context) error {
				_, err := c.SSO.Providers(ctx)
				return err
			},
			method: "GET", path: "/sso/providers",
		},
		{
			name: "sso login",
			call: func(ctx context.Context) error {
				_, err := c.SSO.Login(ctx, "corp")
				return err
			},
			method: "GET", path: "/sso/login/corp",
		},
		{
			name: "exchange code",
			call: func(ctx context.Context) error {
				_, err := c.SSO.ExchangeCode(ctx, "abc")
				return err
			},
			method: "POST", path: "/sso/token", body: `{"code":"abc"}`,
		},
		{
			name: "saml acs with relay state",
			call: func(ctx context.Context) error {
				return c.SSO.SAMLACS(ctx, "corp", "resp", "/home")
			},
			method: "POST", path: "/sso/saml/corp/acs", form: "RelayState=%2Fhome&SAMLResponse=resp",
		},
		{
			name: "admin list",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminList(ctx)
				return err
			},
			method: "GET", path: "/sso/admin/providers",
		},
		{
			name: "admin create",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminCreate(ctx, api.CreateSSOProviderRequest{Name: "Corp", Slug: "corp", Protocol: api.ProtocolOIDC, OIDCConfig: oidc})
				return err
			},
			method: "POST", path: "/sso/admin/providers",
			body: `{"name":"Corp","slug":"corp","protocol":"OIDC","oidc_config":{"client_id":"c","client_secret":"s",` +
				`"authorization_url":"https://idp.example.com/auth","token_url":"https://idp.example.com/token"}}`,
		},
		{
			name: "admin get",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminGet(ctx, "p1")
				return err
			},
			method: "GET", path: "/sso/admin/providers/p1",
		},
		{
			name: "admin update",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminUpdate(ctx, "p1", api.UpdateSSOProviderRequest{Name: utils.Ptr("Corp 2")})
				return err
			},
			method: "PUT", path: "/sso/admin/providers/p1", body: `{"name":"Corp 2"}`,
		},
		{
			name: "admin delete",
			call: func(ctx context.Context) error {
				return c.SSO.AdminDelete(ctx, "p1")
			},
			method: "DELETE", path: "/sso/admin/providers/p1",
		},
		{
			name: "admin activate",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminActivate(ctx, "p1")
				return err
			},
			method: "POST", path: "/sso/admin/providers/p1/activate",
		},
		{
			name: "admin deactivate",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminDeactivate(ctx, "p1")
				return err
			},
			method: "POST", path: "/sso/admin/providers/p1/deactivate",
		},
		{
			name: "admin config",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminConfig(ctx)
				return err
			},
			method: "GET", path: "/sso/admin/config",
		},
		{
			name: "admin update config",
			call: func(ctx context.Context) error {
				_, err := c.SSO.AdminUpdateConfig(ctx, api.UpdateSSOConfigRequest{EnforceSSO: utils.Ptr(true)})
				return err
			},
			method: "PUT", path: "/sso/admin/config", body: `{"enforce_sso":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call(context.Background()))

			got := last()
			require.Equal(t, tt.method, got.method)
			require.Equal(t, tt.path, got.path)
			require.Equal(t, tt.query, got.query)

			switch {
			case tt.body != "":
				require.Equal(t, "application/json", got.contentType)
				require.JSONEq(t, tt.body, got.body)
			case tt.form != "":
				require.Equal(t, "application/x-www-form-urlencoded", got.contentType)
				require.Equal(t, tt.form, got.body)
			default:
				require.Empty(t, got.body)
				require.Empty(t, got.contentType)
			}
		})
	}
}
