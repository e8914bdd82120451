package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/client"
	"github.com/dtroode/emotion-log/internal/client/credential"
	"github.com/dtroode/emotion-log/internal/emotion"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/testutil"
	"github.com/dtroode/emotion-log/internal/testutil/apitest"
)

type harness struct {
	t       *testing.T
	baseURL string
	store   credential.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := apitest.NewServer(t, apitest.Options{})
	return &harness{t: t, baseURL: srv.URL + "/api", store: credential.NewMemory()}
}

// run executes one command with a fresh client over the shared store, like separate processes would.
func (h *harness) run(input string, args ...string) (int, string) {
	h.t.Helper()

	c, err := client.New(client.Options{BaseURL: h.baseURL, Timeout: 5 * time.Second}, h.store, testutil.MakeNoopLogger())
	require.NoError(h.t, err)

	var out bytes.Buffer
	app := New(c, strings.NewReader(input), &out, testutil.MakeNoopLogger())
	app.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }

	code := app.Run(context.Background(), args)
	return code, out.String()
}

func TestApp_Session(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	code, out := h.run("", "logs")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "You are not logged in")

	code, out = h.run("", "signup", "--name", "Ann", "--email", "ann@example.com", "--password", "password1")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Account created")

	code, out = h.run("", "signup", "--email", "ann@example.com", "--password", "password1")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "This email address is already in use.")

	code, out = h.run("ann@example.com\nnot-the-password\n", "login")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Invalid email or password.")

	code, out = h.run("", "login", "--email", "ann@example.com", "--password", "password1")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as Ann <ann@example.com>.")

	code, out = h.run("", "new", "good", "sunny", "walk", "--date", "2024-03-05")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Saved")

	code, out = h.run("", "new", "Awful")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "for 2024-03-15")

	code, out = h.run("", "new", "ecstatic")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "emotionLevel must be one of")

	code, out = h.run("", "logs")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "2024-03-05  "+emotion.Emoji(model.LevelGood)+" Good      sunny walk")
	assert.Less(t, strings.Index(out, "2024-03-15"), strings.Index(out, "2024-03-05"), "newest first")

	code, out = h.run("", "logs", "2024-02")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "No entries.")

	code, out = h.run("", "chart", "2024-03")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Good")
	assert.Contains(t, out, "Awful")

	code, out = h.run("", "profile")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Email: ann@example.com")

	code, out = h.run("", "export")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Exports are not enabled.")

	code, out = h.run("", "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out.")

	code, out = h.run("", "profile")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "You are not logged in")
}

func TestApp_ExpiredSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	require.NoError(t, h.store.Put("token-from-yesterday"))

	code, out := h.run("", "logs")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Your session has expired. Please log in again.")

	_, hasToken, err := h.store.Get()
	require.NoError(t, err)
	assert.False(t, hasToken)
}

func TestApp_Shell(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	input := strings.Join([]string{
		"signup --email sh@example.com --password password1",
		"login --email sh@example.com --password password1",
		"new neutral",
		"logs",
		"bogus",
		"exit",
		"logs",
	}, "\n") + "\n"

	code, out := h.run(input, "shell")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Logged in as sh@example.com.")
	assert.Contains(t, out, emotion.Label(model.LevelNeutral))
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Equal(t, 2, strings.Count(out, "2024-03-15"), "commands after exit must not run")
}

func TestApp_Usage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	code, out := h.run("")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Usage: moodlog")

	code, out = h.run("", "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "chart [YYYY-MM]")
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "conflict", err: apierrors.NewErrEmailIsTaken("a@x.com"), want: "This email address is already in use."},
		{name: "invalid credentials", err: apierrors.NewErrInvalidCredentials(), want: "Invalid email or password."},
		{name: "network", err: apierrors.NewErrNetwork(errors.New("dial tcp")), want: "Could not reach the server. Check your connection and try again."},
		{name: "canceled", err: apierrors.NewErrCanceled(context.Canceled), want: "Request canceled."},
		{name: "rate limited", err: apierrors.NewErrRateLimited(), want: "Too many attempts. Please wait a moment and try again."},
		{name: "internal", err: apierrors.NewErrInternal("db down"), want: "Something went wrong on the server. Please try again later."},
		{
			name: "validation details are sorted",
			err:  apierrors.NewErrValidation("validation failed", map[string]string{"password": "is required", "email": "is required"}),
			want: "Please fix the following:\n  email is required\n  password is required",
		},
		{name: "foreign", err: errors.New("boom"), want: "Something went wrong: boom"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]model.EmotionLevel{
		"very_good": model.LevelVeryGood,
		"very-bad":  model.LevelVeryBad,
		"GREAT":     model.LevelVeryGood,
		" neutral ": model.LevelNeutral,
	} {
		got, ok := parseLevel(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := parseLevel("meh")
	assert.False(t, ok)
}

func TestRenderChart(t *testing.T) {
	t.Parallel()

	out := renderChart([]emotion.Count{
		{Level: model.LevelGood, Count: 4},
		{Level: model.LevelBad, Count: 1},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], strings.Repeat("#", chartWidth)+" 4")
	assert.Contains(t, lines[1], strings.Repeat("#", chartWidth/4)+" 1")
}
