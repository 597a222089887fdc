package artifacts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/models/modelstest"
)

type indexServer struct {
	mu     sync.Mutex
	paths  []string
	bodies []indexedArtifact
	status int
	// failDoc, when set, rejects the index request for that document id.
	failDoc string
}

func (s *indexServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	var doc indexedArtifact
	_ = json.Unmarshal(body, &doc)
	s.paths = append(s.paths, r.Method+" "+r.URL.Path)
	s.bodies = append(s.bodies, doc)

	status := s.status
	if s.failDoc != "" && r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/"+s.failDoc) {
		status = http.StatusBadRequest
	}
	if r.Method == http.MethodDelete {
		status = http.StatusOK
	}

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 300 {
		_, _ = w.Write([]byte(`{"error":{"type":"cluster_block_exception"}}`))
		return
	}
	_, _ = w.Write([]byte(`{"result":"created"}`))
}

func newTestES(t *testing.T, srv *indexServer) *elasticsearch.Client {
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticsearchSink_Write(t *testing.T) {
	srv := &indexServer{status: http.StatusCreated}
	sink := NewElasticsearchSink(newTestES(t, srv), "collateral-artifacts")

	require.NoError(t, sink.Write(context.Background(), modelstest.RunArtifacts("run-1")))

	assert.Equal(t, []string{
		"PUT /collateral-artifacts/_doc/run-1-analysis",
		"PUT /collateral-artifacts/_doc/run-1-content",
		"PUT /collateral-artifacts/_doc/run-1-comparison",
		"PUT /collateral-artifacts/_doc/run-1-pages",
	}, srv.paths)
	assert.Equal(t, "run-1", srv.bodies[2].RunID)
	assert.Equal(t, "comparison", srv.bodies[2].Artifact)
	assert.Contains(t, string(srv.bodies[2].Body), "RadiantC Serum")
}

func TestElasticsearchSink_ErrorStatus(t *testing.T) {
	srv := &indexServer{status: http.StatusForbidden}
	sink := NewElasticsearchSink(newTestES(t, srv), "collateral-artifacts")

	err := sink.Write(context.Background(), modelstest.RunArtifacts("run-1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster_block_exception")
	assert.Len(t, srv.paths, 1)
}

func TestElasticsearchSink_RollsBackOnPartialFailure(t *testing.T) {
	tests := []struct {
		name     string
		failDoc  string
		expected []string
	}{
		{
			name:    "first document fails",
			failDoc: "run-1-analysis",
			expected: []string{
				"PUT /collateral-artifacts/_doc/run-1-analysis",
			},
		},
		{
			name:    "third document fails",
			failDoc: "run-1-comparison",
			expected: []string{
				"PUT /collateral-artifacts/_doc/run-1-analysis",
				"PUT /collateral-artifacts/_doc/run-1-content",
				"PUT /collateral-artifacts/_doc/run-1-comparison",
				"DELETE /collateral-artifacts/_doc/run-1-analysis",
				"DELETE /collateral-artifacts/_doc/run-1-content",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &indexServer{status: http.StatusCreated, failDoc: tt.failDoc}
			sink := NewElasticsearchSink(newTestES(t, srv), "collateral-artifacts")

			err := sink.Write(context.Background(), modelstest.RunArtifacts("run-1"))

			require.Error(t, err)
			assert.Equal(t, tt.expected, srv.paths)
		})
	}
}
