package bot

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/muhammadolammi/resumebot/internal/events"
	"github.com/muhammadolammi/resumebot/internal/extract"
	"github.com/muhammadolammi/resumebot/internal/metrics"
	"github.com/muhammadolammi/resumebot/internal/webhook"
	"go.uber.org/zap"
)

const testWebhookURL = "https://n8n.example.com/webhook/discord-resume"

type recordingResponder struct {
	mu       sync.Mutex
	deferErr error
	deferred int
	messages []*Message
}

func (r *recordingResponder) Defer(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deferred++
	return r.deferErr
}

func (r *recordingResponder) Send(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingResponder) last() *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil
	}
	return r.messages[len(r.messages)-1]
}

type fakeWebhook struct {
	mu         sync.Mutex
	result     *webhook.Result
	err        error
	pingResult *webhook.Result
	pingErr    error
	payloads   []webhook.Payload
	ctxErrs    []error
	pings      int
}

func (f *fakeWebhook) Submit(ctx context.Context, payload webhook.Payload) (*webhook.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.result, f.err
}

func (f *fakeWebhook) Ping(context.Context) (*webhook.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingResult, f.pingErr
}

func (f *fakeWebhook) URL() string {
	return testWebhookURL
}

func (f *fakeWebhook) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type fakeFetcher struct {
	mu   sync.Mutex
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return f.data, f.err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []events.Update
}

func (p *recordingPublisher) Publish(_ context.Context, u events.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) statuses() []events.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Status, 0, len(p.updates))
	for _, u := range p.updates {
		out = append(out, u.Status)
	}
	return out
}

type testEnv struct {
	app       *App
	hook      *fakeWebhook
	files     *fakeFetcher
	publisher *recordingPublisher
	registry  *Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		hook:      &fakeWebhook{result: &webhook.Result{StatusCode: 200, Body: "{}"}},
		files:     &fakeFetcher{data: []byte("Jane Doe\nGo developer")},
		publisher: &recordingPublisher{},
		registry:  DefaultRegistry(),
	}
	env.app = &App{
		Logger:        zap.NewNop(),
		Webhook:       env.hook,
		Files:         env.files,
		Extractor:     extract.New(nil),
		Events:        env.publisher,
		Metrics:       metrics.New(),
		CommandPrefix: "!",
	}
	return env
}

func (env *testEnv) scrapeMetrics(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	env.app.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func optimizeInvocation(filename, email, jobDescription string, r Responder) *Invocation {
	return &Invocation{
		Command: "optimize-resume",
		Options: map[string]string{
			optionEmail:          email,
			optionJobDescription: jobDescription,
		},
		Attachments: map[string]*Attachment{
			optionResume: {
				ID:       "att-1",
				Filename: filename,
				URL:      "https://cdn.discordapp.com/attachments/1/2/" + filename,
				Size:     128,
			},
		},
		Caller:    Caller{ID: "1001", Name: "jane"},
		ChannelID: "2002",
		Responder: r,
	}
}

// messageText flattens a reply into one string for assertions.
func messageText(m *Message) string {
	if m == nil {
		return ""
	}
	parts := []string{m.Content}
	if m.Embed != nil {
		parts = append(parts, m.Embed.Title, m.Embed.Description)
		for _, f := range m.Embed.Fields {
			parts = append(parts, f.Name, f.Value)
		}
		if m.Embed.Footer != nil {
			parts = append(parts, m.Embed.Footer.Text)
		}
	}
	return strings.Join(parts, "\n")
}
