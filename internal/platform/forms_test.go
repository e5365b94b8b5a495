package platform

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rflorenc/formpatch/internal/formstest"
	"github.com/rflorenc/formpatch/internal/models"
)

// reporter records diagnostics in order.
type reporter struct {
	failures []string
	details  []string
	hints    []string
}

func (r *reporter) Failure(msg string) { r.failures = append(r.failures, msg) }
func (r *reporter) Detail(msg string)  { r.details = append(r.details, msg) }
func (r *reporter) Hint(msg string)    { r.hints = append(r.hints, msg) }

func newTestForms(srv *formstest.Server, p *pauses, out Reporter, logger *zap.Logger) *Forms {
	client := NewClient(Options{
		BaseURL:    srv.URL,
		Token:      formstest.Token,
		Pace:       DefaultPace,
		Pacer:      p.pace,
		HTTPClient: srv.Client(),
		Logger:     logger,
	})
	return NewForms(client, out, 2)
}

func fixtures() []models.Form {
	return []models.Form{
		formstest.Form("f1", "Newsletter", formstest.Bool(true)),
		formstest.Form("f2", "Contact us", formstest.Bool(false)),
		formstest.Form("f3", "Webinar", nil),
		formstest.Form("f4", "Demo request", formstest.Bool(false)),
		formstest.Form("f5", "Careers", nil),
	}
}

func TestForms_ListAll_FollowsEveryPage(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()

	p := &pauses{}
	forms, err := newTestForms(srv, p, &reporter{}, nil).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 5)
	for i, want := range []string{"f1", "f2", "f3", "f4", "f5"} {
		assert.Equal(t, want, forms[i].ID())
	}
	assert.Equal(t, 3, srv.ListCalls())
	assert.Len(t, p.calls, 2)
}

func TestForms_ListAll_NoForms(t *testing.T) {
	srv := formstest.NewServer()
	defer srv.Close()

	out := &reporter{}
	forms, err := newTestForms(srv, &pauses{}, out, nil).ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, 1, srv.ListCalls())
	assert.Empty(t, out.failures)
}

func TestForms_ListAll_Unauthorized(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()
	srv.Token = "another-token"

	core, logs := observer.New(zapcore.WarnLevel)
	out := &reporter{}
	forms, err := newTestForms(srv, &pauses{}, out, zap.New(core)).ListAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, forms)
	assert.Equal(t, []string{"Fetching forms failed: HTTP 401"}, out.failures)
	require.Len(t, out.details, 1)
	assert.Contains(t, out.details[0], "INVALID_AUTHENTICATION")
	assert.Equal(t, []string{HintUnauthorized}, out.hints)
	assert.Equal(t, 1, logs.FilterMessage("forms request failed").Len())
}

func TestForms_ListAll_Forbidden(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()
	srv.FailList(http.StatusForbidden, `{"category":"MISSING_SCOPES"}`)

	out := &reporter{}
	_, err := newTestForms(srv, &pauses{}, out, nil).ListAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{HintForbiddenRead}, out.hints)
}

func TestForms_Get(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()

	form, err := newTestForms(srv, &pauses{}, &reporter{}, nil).Get(context.Background(), "f3")
	require.NoError(t, err)
	assert.Equal(t, "Webinar", form.Name())
	assert.False(t, form.FlagEnabled())
}

func TestForms_Get_NotFound(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()

	out := &reporter{}
	form, err := newTestForms(srv, &pauses{}, out, nil).Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, form)
	assert.Equal(t, []string{"Fetching form missing failed: HTTP 404"}, out.failures)
	assert.Equal(t, []string{HintNotFound}, out.hints)
}

func TestForms_Get_Unauthorized(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()
	srv.Token = "another-token"

	out := &reporter{}
	_, err := newTestForms(srv, &pauses{}, out, nil).Get(context.Background(), "f1")
	require.Error(t, err)
	assert.Equal(t, []string{HintUnauthorized}, out.hints)
}

func TestForms_Get_EmptyID(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()

	_, err := newTestForms(srv, &pauses{}, &reporter{}, nil).Get(context.Background(), "")
	require.Error(t, err)
}

func TestForms_Update(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	defer srv.Close()

	p := &pauses{}
	require.NoError(t, newTestForms(srv, p, &reporter{}, nil).Update(context.Background(), "f2"))

	patches := srv.Patches()
	require.Len(t, patches, 1)
	assert.Equal(t, "f2", patches[0].ID)
	assert.Equal(t, map[string]interface{}{
		"configuration": map[string]interface{}{
			models.FlagCreateNewContact:     true,
			models.FlagAllowResetKnownValue: true,
		},
	}, patches[0].Body)

	// The server merges: unrelated configuration keys survive.
	stored := srv.Lookup("f2")
	assert.True(t, stored.FlagEnabled())
	assert.Equal(t, "en", stored.Configuration()["language"])

	assert.Equal(t, []time.Duration{DefaultPace}, p.calls)
}

func TestForms_Update_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		token   string
		hint    string
		failure string
	}{
		{"unauthorized", http.StatusUnauthorized, "another-token", HintUnauthorized, "Updating form f2 failed: HTTP 401"},
		{"forbidden", http.StatusForbidden, "", HintForbiddenWrite, "Updating form f2 failed: HTTP 403"},
		{"bad request", http.StatusBadRequest, "", HintBadRequest, "Updating form f2 failed: HTTP 400"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := formstest.NewServer(fixtures()...)
			defer srv.Close()
			if tc.token != "" {
				srv.Token = tc.token
			} else {
				srv.FailForm("f2", tc.status, `{"message":"rejected"}`)
			}

			p := &pauses{}
			out := &reporter{}
			err := newTestForms(srv, p, out, nil).Update(context.Background(), "f2")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, []string{tc.failure}, out.failures)
			assert.Equal(t, []string{tc.hint}, out.hints)
			assert.Empty(t, p.calls, "no pause after a failed update")
		})
	}
}

func TestForms_TransportFailure(t *testing.T) {
	srv := formstest.NewServer(fixtures()...)
	forms := newTestForms(srv, &pauses{}, &reporter{}, nil)
	srv.Close()

	out := &reporter{}
	forms.out = out
	_, err := forms.ListAll(context.Background())
	require.Error(t, err)
	require.Len(t, out.failures, 1)
	assert.Contains(t, out.failures[0], "Fetching forms failed:")
	assert.Empty(t, out.details)
	assert.Equal(t, []string{HintTransport}, out.hints)
}

func TestNewFormsAPI(t *testing.T) {
	api := NewFormsAPI(Options{Token: "t"}, &reporter{}, 0)
	forms, ok := api.(*Forms)
	require.True(t, ok)
	assert.Equal(t, DefaultPageSize, forms.pageSize)
}
