package notifier

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/extramurs/matchday/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

var (
	win  = match.Fixture{MatchID: "1", Date: "2025-10-12", Home: "C.D. Extramurs", Away: "Rival CF", Score: "3-1", IsHome: true, Won: boolPtr(true)}
	draw = match.Fixture{MatchID: "2", Date: "2025-10-19", Home: "Otro CF", Away: "C.D. Extramurs", Score: "1-1", Won: boolPtr(false)}
	next = match.Fixture{MatchID: "3", Date: "2025-10-26", Time: "12:00", Home: "C.D. Extramurs", Away: "Lejos CF", Venue: "Campo Municipal"}
)

func TestBuild(t *testing.T) {
	diff := &match.DiffResult{
		NewResults:  []match.Fixture{win},
		Rescheduled: []match.FixtureChange{{Key: "3", ChangeType: match.ChangeTime, OldValue: "10:00", NewValue: "12:00", Fixture: next}},
	}

	got := Build(diff, &next)
	require.Len(t, got, 3)
	assert.Equal(t, KindResult, got[0].Kind)
	assert.Equal(t, "3-1", got[0].NewValue)
	assert.Equal(t, KindRescheduled, got[1].Kind)
	assert.Equal(t, "10:00", got[1].OldValue)
	assert.Equal(t, KindNext, got[2].Kind)

	assert.Empty(t, Build(nil, nil))
}

func TestFormatter_Format(t *testing.T) {
	f := Formatter{Hashtags: "#Extramurs #FFCV"}

	tests := []struct {
		name     string
		a        Announcement
		contains []string
	}{
		{"win", Announcement{Kind: KindResult, Fixture: win}, []string{"Resultado final", "C.D. Extramurs 3-1 Rival CF", "Victoria", "#Extramurs"}},
		{"draw", Announcement{Kind: KindResult, Fixture: draw}, []string{"Otro CF 1-1 C.D. Extramurs", "Empate"}},
		{"rescheduled", Announcement{Kind: KindRescheduled, Fixture: next, OldValue: "", NewValue: "12:00"}, []string{"Cambio", "Antes: sin fijar", "Ahora: 12:00"}},
		{"next", Announcement{Kind: KindNext, Fixture: next}, []string{"Próximo partido", "C.D. Extramurs vs Lejos CF", "2025-10-26 12:00", "Campo Municipal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := f.Format(tt.a)
			for _, s := range tt.contains {
				assert.Contains(t, post, s)
			}
			assert.LessOrEqual(t, utf8.RuneCountInString(post), MaxPostLength)
		})
	}
}

func TestFormatter_Truncates(t *testing.T) {
	long := next
	long.Venue = strings.Repeat("Polideportivo Municipal ñ ", 20)

	post := Formatter{}.Format(Announcement{Kind: KindNext, Fixture: long})
	assert.Equal(t, MaxPostLength, utf8.RuneCountInString(post))
	assert.True(t, strings.HasSuffix(post, "…"))
	assert.True(t, utf8.ValidString(post))
}

func TestDryRunNotifier(t *testing.T) {
	var out bytes.Buffer
	n := NewDryRunNotifier(&out, Formatter{})

	err := n.Notify(context.Background(), Build(&match.DiffResult{NewResults: []match.Fixture{win}}, &next))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "--- Post 1/2 (result) ---")
	assert.Contains(t, out.String(), "--- Post 2/2 (next) ---")
	assert.Contains(t, out.String(), "Length:")
}

func TestNewTwitterNotifier_MissingCredentials(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TWITTER_API_SECRET", "")
	t.Setenv("TWITTER_ACCESS_TOKEN", "")
	t.Setenv("TWITTER_ACCESS_SECRET", "")

	_, err := NewTwitterNotifier(Formatter{})
	assert.Error(t, err)
}

func TestNewTwitterNotifier_WithCredentials(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "key")
	t.Setenv("TWITTER_API_SECRET", "secret")
	t.Setenv("TWITTER_ACCESS_TOKEN", "token")
	t.Setenv("TWITTER_ACCESS_SECRET", "token-secret")

	n, err := NewTwitterNotifier(Formatter{})
	require.NoError(t, err)
	assert.NotNil(t, n)
}

// redirect sends every request to the test server.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestTwitterNotifier_Notify(t *testing.T) {
	var mu sync.Mutex
	var statuses []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		mu.Lock()
		statuses = append(statuses, form.Get("status"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id_str": "42"}`))
	}))
	defer server.Close()

	target, _ := url.Parse(server.URL)
	n := newTwitterNotifier(&http.Client{Transport: redirect{target: target}}, Formatter{}, 0)

	err := n.Notify(context.Background(), Build(&match.DiffResult{NewResults: []match.Fixture{win, draw}}, nil))
	require.NoError(t, err)

	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0], "3-1")
	assert.Contains(t, statuses[1], "1-1")
}

func TestTwitterNotifier_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`))
	}))
	defer server.Close()

	target, _ := url.Parse(server.URL)
	n := newTwitterNotifier(&http.Client{Transport: redirect{target: target}}, Formatter{}, 0)

	err := n.Notify(context.Background(), []Announcement{{Kind: KindResult, Fixture: win}})
	assert.Error(t, err)
}

func TestNewTelegramNotifier_MissingCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	_, err := NewTelegramNotifier(Formatter{})
	assert.Error(t, err)

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	_, err = NewTelegramNotifier(Formatter{})
	assert.Error(t, err, "chat id still missing")
}

func TestTelegramNotifier_Notify(t *testing.T) {
	var mu sync.Mutex
	var paths, texts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ChatID string `json:"chat_id"`
			Text   string `json:"text"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &payload)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		texts = append(texts, payload.Text)
		mu.Unlock()
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	n := newTelegramNotifier(server.URL+"/bot", "TOKEN", "-100", Formatter{Hashtags: "#Extramurs"})
	err := n.Notify(context.Background(), Build(&match.DiffResult{NewResults: []match.Fixture{win}}, &next))
	require.NoError(t, err)

	require.Len(t, texts, 2)
	assert.Equal(t, "/botTOKEN/sendMessage", paths[0])
	assert.Contains(t, texts[0], "3-1")
	assert.Contains(t, texts[0], "#Extramurs")
	assert.Contains(t, texts[1], "Lejos CF")
}

func TestTelegramNotifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer server.Close()

	n := newTelegramNotifier(server.URL+"/bot", "TOKEN", "-100", Formatter{})
	err := n.Notify(context.Background(), []Announcement{{Kind: KindResult, Fixture: win}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
