// Package artifacts persists the outputs of a successful run.
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collateral-pipeline/internal/common/config"
	"collateral-pipeline/internal/common/database"
	"collateral-pipeline/internal/models"
)

const (
	SinkFile          = "file"
	SinkRedis         = "redis"
	SinkPostgres      = "postgres"
	SinkElasticsearch = "elasticsearch"
)

// Names lists the artifacts of a run in write order.
var Names = []string{"analysis", "content", "comparison", "pages"}

// Sink writes all artifacts of one run.
type Sink interface {
	Name() string
	Write(ctx context.Context, run models.RunArtifacts) error
}

// Document is one encoded artifact.
type Document struct {
	Name string
	Body []byte
}

// Encode renders every artifact as indented JSON. It fails before any
// sink touches storage, so a partial encode never produces partial output.
func Encode(run models.RunArtifacts) ([]Document, error) {
	values := map[string]interface{}{
		"analysis":   run.Analysis,
		"content":    run.Content,
		"comparison": run.Comparison,
		"pages":      run.Pages,
	}

	docs := make([]Document, 0, len(Names))
	for _, name := range Names {
		body, err := json.MarshalIndent(values[name], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		docs = append(docs, Document{Name: name, Body: body})
	}
	return docs, nil
}

// NewSink builds the sink selected by cfg.Sink. The returned close func
// releases any connection the sink opened.
func NewSink(cfg config.OutputConfig, db config.DatabaseConfig) (Sink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Sink {
	case "", SinkFile:
		return NewFileSink(cfg.Dir), noop, nil

	case SinkRedis:
		rc := database.NewRedis(db.Redis)
		ttl := time.Duration(cfg.Redis.TTL) * time.Second
		return NewRedisSink(rc.Client, cfg.Redis.KeyPrefix, ttl), rc.Close, nil

	case SinkPostgres:
		pg, err := database.NewPostgres(db.Postgres)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresSink(pg.DB, cfg.Postgres.Table), pg.Close, nil

	case SinkElasticsearch:
		es, err := database.NewElasticsearch(db.Elasticsearch)
		if err != nil {
			return nil, noop, err
		}
		return NewElasticsearchSink(es.Client, cfg.Elasticsearch.Index), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown artifact sink %q", cfg.Sink)
}
