package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/internal/app"
	"github.com/Castafa/News-ans-Public-opinion/internal/config"
)

const demoPassword = "password123"

// TestServer runs the whole portal over sqlite and miniredis
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Redis     *miniredis.Miniredis
}

// testConfig mirrors config/config.yml with local backends
func testConfig(t *testing.T, mr *miniredis.Miniredis) *config.Config {
	t.Helper()

	file := config.Default()
	file.Database.Driver = "sqlite"
	file.Database.DSN = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	file.Database.BcryptCost = 4
	file.Session.Backend = "redis"
	file.Redis.Addr = mr.Addr()
	file.Actor.Secret = "e2e-actor-secret-value"
	file.Login.SweepInterval = "0s"
	file.Login.RatePerMinute = 600
	file.Login.RateBurst = 50
	file.Login.IPRatePerMin = 600
	file.Login.IPRateBurst = 200
	file.Seed = config.SeedConfig{
		Enabled: true,
		Users: []config.SeedUser{
			{Name: "Admin User", Email: "admin@example.com", Password: demoPassword, Role: "ADMIN", Phone: "1234567890"},
			{Name: "Jane Doe", Email: "user@example.com", Password: demoPassword, Role: "USER"},
			{Name: "John Smith", Email: "client@example.com", Password: demoPassword, Role: "CLIENT"},
		},
		Articles: []config.SeedArticle{
			{Title: "City council approves new park", AuthorEmail: "user@example.com", Content: "Park news.", Status: "APPROVED"},
			{Title: "Readers weigh in on transit fares", AuthorEmail: "user@example.com", Content: "Fares.", Status: "PENDING"},
		},
	}

	cfg, err := config.FromFile(&file)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// NewTestServer starts a seeded portal; edit tweaks the config first
func NewTestServer(t *testing.T, edit func(*config.Config)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	if edit != nil {
		edit(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c, err := app.NewContainer(ctx, cfg, zerolog.Nop())
	if err != nil {
		cancel()
		t.Fatalf("container: %v", err)
	}
	if err := c.Seed(ctx); err != nil {
		cancel()
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(c.Handler(ctx))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		c.Close()
	})
	return &TestServer{Server: srv, Container: c, Redis: mr}
}

// Browser is one actor: its own cookie jar, redirects left unfollowed
type Browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

// NewBrowser opens a fresh browser context against the server
func (s *TestServer) NewBrowser(t *testing.T) *Browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &Browser{
		t:    t,
		base: s.Server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response is a read-out HTTP response
type Response struct {
	Status   int
	Location string
	Header   http.Header
	Body     map[string]interface{}
	Raw      string
}

// Data returns the "data" object of a JSON envelope
func (r *Response) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func (b *Browser) Do(method, path string, body interface{}) *Response {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			b.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, b.base+path, reader)
	if err != nil {
		b.t.Fatalf("request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	out := &Response{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Header: resp.Header, Raw: string(raw)}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(raw, &out.Body)
	}
	return out
}

func (b *Browser) Get(path string) *Response { return b.Do(http.MethodGet, path, nil) }

func (b *Browser) Post(path string, body interface{}) *Response {
	return b.Do(http.MethodPost, path, body)
}

// Credentials submits the first login form
func (b *Browser) Credentials(email, password, from string) *Response {
	return b.Post("/login/credentials", map[string]string{"email": email, "password": password, "from": from})
}

// StepUp submits the phone number form
func (b *Browser) StepUp(phone, from string) *Response {
	return b.Post("/login/step-up", map[string]string{"phone": phone, "from": from})
}

// LoginAsAdmin completes both login steps with the demo administrator
func (b *Browser) LoginAsAdmin() {
	b.t.Helper()
	if r := b.Credentials("admin@example.com", demoPassword, ""); r.Status != http.StatusOK {
		b.t.Fatalf("admin credentials: %d %s", r.Status, r.Raw)
	}
	if r := b.StepUp("1234567890", ""); r.Status != http.StatusOK {
		b.t.Fatalf("admin step-up: %d %s", r.Status, r.Raw)
	}
}
