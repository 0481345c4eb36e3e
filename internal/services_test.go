package internal

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/grid"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/session"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/view"
)

const groupsBody = `{"hydra:totalItems":2,"hydra:member":[
	{"identifier":"g1","name":"Registry","accessRights":["r","w"]},
	{"identifier":"g2","name":"Archive","accessRights":[]}
]}`

const requestsBody = `{"hydra:totalItems":2,"hydra:member":[
	{"identifier":"r1","name":"Old","dateCreated":"2024-01-01T10:00:00+00:00","files":[],"recipients":[]},
	{"identifier":"r2","name":"New","dateCreated":"2024-03-01T10:00:00+00:00","files":[],"recipients":[]}
]}`

func newTestServices(t *testing.T, token string) (*Services, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		switch r.URL.Path {
		case "/dispatch/groups":
			fmt.Fprint(w, groupsBody)
		case "/dispatch/requests":
			assert.Equal(t, "g1", r.URL.Query().Get("groupId"))
			fmt.Fprint(w, requestsBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		Server: config.Server{BaseURL: srv.URL, Timeout: 5 * time.Second, PerPage: 100},
		Auth:   config.Auth{Token: token},
		Bulk:   config.Bulk{Workers: 1},
		Storage: config.Storage{S3: config.S3{
			Region:          "eu-central-1",
			AccessKeyID:     "test",
			SecretAccessKey: "test",
		}},
	}
	out := &bytes.Buffer{}
	s, err := InitServices(context.Background(), cfg, strings.NewReader(""), out,
		tracenoop.NewTracerProvider().Tracer(""),
		zaptest.NewLogger(t).Sugar(),
		metricnoop.NewMeterProvider().Meter(""))
	require.NoError(t, err)
	return s, out
}

func TestOpenLoadsTheOnlyReadableGroup(t *testing.T) {
	s, _ := newTestServices(t, "tok")

	require.NoError(t, s.Open(context.Background(), ""))

	assert.Equal(t, "g1", s.View.Scope().Identifier)
	page, err := s.Grid.Apply(grid.Query{})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	assert.Equal(t, "r2", page.Rows[0].Identifier)
	assert.Equal(t, "r1", page.Rows[1].Identifier)
}

func TestRowClickShowsDetail(t *testing.T) {
	s, _ := newTestServices(t, "tok")
	require.NoError(t, s.Open(context.Background(), "g1"))

	require.True(t, s.Grid.Click("r1"))

	current, ok := s.View.Current()
	require.True(t, ok)
	assert.Equal(t, "Old", current.Name)
	assert.Equal(t, view.ModeDetail, s.View.Snapshot().Mode)
}

func TestOpenNeedsLogin(t *testing.T) {
	s, out := newTestServices(t, "")

	err := s.Open(context.Background(), "g1")

	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Contains(t, out.String(), "Not logged in")
	assert.Empty(t, s.View.Snapshot().Requests)
}

func TestOpenUnknownGroup(t *testing.T) {
	s, _ := newTestServices(t, "tok")

	err := s.Open(context.Background(), "nope")

	assert.ErrorContains(t, err, `unknown organization group "nope"`)
}

func TestPickGroup(t *testing.T) {
	registry := models.Group{Identifier: "g1", Name: "Registry", AccessRights: []string{"w"}}
	archive := models.Group{Identifier: "g2", Name: "Archive", AccessRights: []string{"r"}}
	hidden := models.Group{Identifier: "g3", Name: "Hidden"}

	tests := []struct {
		name    string
		groups  []models.Group
		id      string
		want    string
		wantErr error
	}{
		{name: "explicit", groups: []models.Group{registry, archive}, id: "g2", want: "g2"},
		{name: "only readable", groups: []models.Group{registry, hidden}, want: "g1"},
		{name: "ambiguous", groups: []models.Group{registry, archive}, wantErr: view.ErrNoScope},
		{name: "none", groups: nil, wantErr: view.ErrNoScope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickGroup(tt.groups, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Identifier)
		})
	}
}
