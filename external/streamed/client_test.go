package streamed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_FetchMatches_SkipsUndecodableEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("accept") != "application/json" {
			t.Errorf("unexpected accept header: %q", r.Header.Get("accept"))
		}
		_, _ = w.Write([]byte(`[
			{"id":"m-1","title":"Arsenal vs Chelsea","category":"football","date":1760000000000,
			 "teams":{"home":{"name":"Arsenal","badge":"ars"},"away":{"name":"Chelsea"}},
			 "sources":[{"source":"alpha","id":"a1"}]},
			"not-a-match",
			{"id":2,"date":1760000100000}
		]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{MatchesURL: server.URL, Timeout: time.Second})
	matches, err := client.FetchMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)

	require.Equal(t, "m-1", matches[0].ID.String())
	require.Equal(t, "Arsenal", matches[0].HomeTeam().Name.String())
	require.Len(t, matches[0].Sources, 1)
	require.Equal(t, "alpha/a1", matches[0].Sources[0].Key())
	require.Equal(t, "2", matches[1].ID.String())
	require.Nil(t, matches[1].Teams)
}

func TestClient_FetchMatches_EmptyArray(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	matches, err := NewClient(ClientConfig{MatchesURL: server.URL}).FetchMatches(context.Background())
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestClient_FetchMatches_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{name: "server error", status: http.StatusBadGateway, body: "bad gateway", transient: true},
		{name: "not found", status: http.StatusNotFound, body: "missing"},
		{name: "malformed body", status: http.StatusOK, body: `{"matches":`},
		{name: "object instead of array", status: http.StatusOK, body: `{"success":false}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(ClientConfig{MatchesURL: server.URL}).FetchMatches(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := isTransientFailure(err); got != tc.transient {
				t.Fatalf("transient=%v want=%v (err=%v)", got, tc.transient, err)
			}
		})
	}
}

func TestClient_FetchMatches_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientConfig{MatchesURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.FetchMatches(context.Background())
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !isTransientFailure(err) {
		t.Fatalf("expected transient failure, got %v", err)
	}
}
