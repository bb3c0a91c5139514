package garage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	mHttp "github.com/matt-dz/foodgram/internal/http"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := mHttp.DefaultConfig(nil)
	client.RetryMax = 0
	client.RetryWaitMin = time.Millisecond
	return NewClient(srv.URL, "admin-token", mHttp.New(client))
}

func TestInitializeLayout(t *testing.T) {
	tests := []struct {
		name      string
		status    getClusterStatusResponse
		wantCalls []string
		wantErr   bool
	}{
		{
			name:      "layout already applied",
			status:    getClusterStatusResponse{LayoutVersion: 2, Nodes: []node{{ID: "n1"}}},
			wantCalls: []string{"/v2/GetClusterStatus"},
		},
		{
			name:   "fresh cluster",
			status: getClusterStatusResponse{Nodes: []node{{ID: "n1"}, {ID: "n2"}}},
			wantCalls: []string{
				"/v2/GetClusterStatus",
				"/v2/UpdateClusterLayout",
				"/v2/ApplyClusterLayout",
			},
		},
		{
			name:      "no nodes",
			status:    getClusterStatusResponse{},
			wantCalls: []string{"/v2/GetClusterStatus"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			var update updateClusterLayoutRequest
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				rec.add(r.URL.Path)
				if r.Header.Get("Authorization") != "Bearer admin-token" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				switch r.URL.Path {
				case "/v2/GetClusterStatus":
					_ = json.NewEncoder(w).Encode(tt.status)
				case "/v2/UpdateClusterLayout":
					_ = json.NewDecoder(r.Body).Decode(&update)
				}
			})

			err := client.InitializeLayout(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("InitializeLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(rec.calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", rec.calls, tt.wantCalls)
			}
			for i := range rec.calls {
				if rec.calls[i] != tt.wantCalls[i] {
					t.Errorf("call %d = %q, want %q", i, rec.calls[i], tt.wantCalls[i])
				}
			}
			if len(tt.wantCalls) == 3 && len(update.Roles) != len(tt.status.Nodes) {
				t.Errorf("roles = %d, want %d", len(update.Roles), len(tt.status.Nodes))
			}
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	tests := []struct {
		name        string
		lookup      int
		wantCreated bool
		wantErr     bool
	}{
		{name: "bucket exists", lookup: http.StatusOK},
		{name: "bucket missing", lookup: http.StatusNotFound, wantCreated: true},
		{name: "admin api rejects token", lookup: http.StatusForbidden, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := ""
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/v2/GetBucketInfo":
					if r.URL.Query().Get("globalAlias") != "foodgram-images" {
						w.WriteHeader(http.StatusBadRequest)
						return
					}
					w.WriteHeader(tt.lookup)
					if tt.lookup == http.StatusOK {
						_, _ = w.Write([]byte(`{"id":"b1"}`))
					}
				case "/v2/CreateBucket":
					var req createBucketRequest
					_ = json.NewDecoder(r.Body).Decode(&req)
					created = req.GlobalAlias
				}
			})

			err := client.EnsureBucket(context.Background(), "foodgram-images")
			if (err != nil) != tt.wantErr {
				t.Fatalf("EnsureBucket() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantCreated && created != "foodgram-images" {
				t.Errorf("created = %q, want foodgram-images", created)
			}
			if !tt.wantCreated && created != "" {
				t.Errorf("unexpected bucket creation %q", created)
			}
		})
	}
}
