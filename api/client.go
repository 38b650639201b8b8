package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client issues requests against the portal REST API. The bearer token is taken
// from the injected TokenSource on every request; there is no shared global config.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     oauth2.TokenSource
	validate   *validator.Validate
	logger     zerolog.Logger
	metrics    *Metrics
	userAgent  string

	Users     *UserService
	Employees *EmployeeService
	Schedules *ScheduleService
	Messages  *MessageService
	Approvals *ApprovalService
	SSO       *SSOService
	OAuth     *OAuthService
	Tasks     *TaskService
	Chat      *ChatService
	Kafka     *KafkaService
	MQTT      *MQTTService
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource supplies the bearer token. A source returning an error (no
// session, expired session) results in an unauthenticated request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			// copy so a client passed to WithHTTPClient is left untouched
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// New creates a client rooted at baseURL (e.g. "https://portal.example.com/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[api New] invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[api New] base url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     zerolog.Nop(),
		userAgent:  "go-portal-client",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Users = &UserService{c: c}
	c.Employees = &EmployeeService{c: c}
	c.Schedules = &ScheduleService{c: c}
	c.Messages = &MessageService{c: c}
	c.Approvals = &ApprovalService{c: c}
	c.SSO = &SSOService{c: c}
	c.OAuth = &OAuthService{c: c}
	c.Tasks = &TaskService{c: c}
	c.Chat = &ChatService{c: c}
	c.Kafka = &KafkaService{brokerService{c: c, name: "kafka", prefix: PathKafka}}
	c.MQTT = &MQTTService{brokerService{c: c, name: "mqtt", prefix: PathMQTT}}
	return c, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}
