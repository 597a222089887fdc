package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"collateral-pipeline/internal/models"
)

// ElasticsearchSink indexes each artifact as its own document with id
// <runID>-<name>.
type ElasticsearchSink struct {
	client    *elasticsearch.Client
	indexName string
}

type indexedArtifact struct {
	RunID    string          `json:"run_id"`
	Artifact string          `json:"artifact"`
	Body     json.RawMessage `json:"body"`
}

func NewElasticsearchSink(client *elasticsearch.Client, index string) *ElasticsearchSink {
	return &ElasticsearchSink{client: client, indexName: index}
}

func (s *ElasticsearchSink) Name() string { return SinkElasticsearch }

// Write indexes every artifact. If one fails, documents already indexed for
// the run are deleted.
func (s *ElasticsearchSink) Write(ctx context.Context, run models.RunArtifacts) error {
	docs, err := Encode(run)
	if err != nil {
		return err
	}

	var indexed []string
	for _, doc := range docs {
		id := run.RunID + "-" + doc.Name
		if err := s.index(ctx, run.RunID, id, doc); err != nil {
			s.rollback(ctx, indexed)
			return err
		}
		indexed = append(indexed, id)
	}
	return nil
}

func (s *ElasticsearchSink) index(ctx context.Context, runID, id string, doc Document) error {
	payload, err := json.Marshal(indexedArtifact{RunID: runID, Artifact: doc.Name, Body: doc.Body})
	if err != nil {
		return fmt.Errorf("encode %s document: %w", doc.Name, err)
	}

	res, err := s.client.Index(
		s.indexName,
		bytes.NewReader(payload),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", doc.Name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index %s: %s: %s", doc.Name, res.Status(), bytes.TrimSpace(msg))
	}
	return nil
}

func (s *ElasticsearchSink) rollback(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		res, err := s.client.Delete(s.indexName, id, s.client.Delete.WithContext(ctx))
		if err != nil {
			continue
		}
		res.Body.Close()
	}
}
