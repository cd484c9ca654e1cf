package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"portfolio_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexName is the Elasticsearch index holding project documents.
const IndexName = "projects"

// IndexMapping is the body used to create IndexName.
const IndexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "slug":         { "type": "keyword" },
      "title":        { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "subtitle":     { "type": "text" },
      "description":  { "type": "text" },
      "technologies": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "keywords":     { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "featured":     { "type": "boolean" },
      "is_upcoming":  { "type": "boolean" },
      "status":       { "type": "keyword" },
      "start_date":   { "type": "date" },
      "end_date":     { "type": "date" },
      "created_at":   { "type": "date" },
      "updated_at":   { "type": "date" }
    }
  }
}`

// ErrSearchDisabled is returned by ESIndex.Search when no Elasticsearch client is configured.
var ErrSearchDisabled = errors.New("project search index is disabled")

// SearchIndex is the full-text index kept in step with the project table.
type SearchIndex interface {
	Index(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) ([]uuid.UUID, int64, error)
}

// ESIndex implements SearchIndex on Elasticsearch. A nil client disables it:
// writes become no-ops and Search returns ErrSearchDisabled.
type ESIndex struct {
	client  *elasticsearch.ESClientWrapper
	refresh string
	logger  *zap.Logger
}

// NewESIndex creates the project index adapter. client may be nil.
func NewESIndex(client *elasticsearch.ESClientWrapper, logger *zap.Logger) *ESIndex {
	return &ESIndex{client: client, logger: logger.Named("project_index")}
}

// Enabled reports whether an Elasticsearch client is configured.
func (x *ESIndex) Enabled() bool {
	return x != nil && x.client != nil
}

// WithRefresh returns a copy that asks Elasticsearch to refresh after each write.
func (x *ESIndex) WithRefresh(policy string) *ESIndex {
	cp := *x
	cp.refresh = policy
	return &cp
}

// EnsureIndex creates IndexName when it does not exist yet.
func (x *ESIndex) EnsureIndex(ctx context.Context) error {
	if !x.Enabled() {
		return nil
	}
	return elasticsearch.EnsureIndex(ctx, x.client, IndexName, IndexMapping, x.logger)
}

// ToDocument converts a project into its search document.
func ToDocument(p *Project) ([]byte, error) {
	if p == nil {
		return nil, errors.New("project cannot be nil")
	}
	doc := map[string]interface{}{
		"slug":         p.Slug,
		"title":        p.Title,
		"subtitle":     p.Subtitle,
		"description":  p.Description,
		"technologies": nonNil(p.Technologies),
		"keywords":     nonNil(p.Keywords),
		"featured":     p.Featured,
		"is_upcoming":  p.IsUpcoming,
		"status":       string(p.Status),
		"start_date":   p.Timeline.StartDate,
		"end_date":     p.Timeline.EndDate,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project %s to JSON: %w", p.ID, err)
	}
	return body, nil
}

func (x *ESIndex) Index(ctx context.Context, p *Project) error {
	if !x.Enabled() {
		return nil
	}
	body, err := ToDocument(p)
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      IndexName,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    x.refresh,
	}.Do(ctx, x.client.Client)
	if err != nil {
		return fmt.Errorf("error indexing project %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing project %s: status %s", p.ID, res.Status())
	}
	return nil
}

// Delete removes a project document. A missing document is not an error.
func (x *ESIndex) Delete(ctx context.Context, id uuid.UUID) error {
	if !x.Enabled() {
		return nil
	}
	res, err := esapi.DeleteRequest{
		Index:      IndexName,
		DocumentID: id.String(),
		Refresh:    x.refresh,
	}.Do(ctx, x.client.Client)
	if err != nil {
		return fmt.Errorf("error deleting project %s from index: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting project %s from index: status %s", id, res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a relevance-ranked multi-field query and returns matching ids in rank order.
func (x *ESIndex) Search(ctx context.Context, query string, from, size int) ([]uuid.UUID, int64, error) {
	if !x.Enabled() {
		return nil, 0, ErrSearchDisabled
	}

	body := map[string]interface{}{
		"from":             from,
		"size":             size,
		"_source":          false,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "subtitle^2", "technologies^2", "keywords^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("error encoding search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{IndexName},
		Body:  &buf,
	}.Do(ctx, x.client.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching projects: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("error searching projects: status %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("error parsing search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			x.logger.Warn("Skipping search hit with invalid id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}

// SyncResult summarizes a bulk re-index run.
type SyncResult struct {
	Indexed int
	Failed  int
}

// SyncAll re-indexes every project in batches through the bulk API.
func (x *ESIndex) SyncAll(ctx context.Context, repo Repository, batchSize int) (SyncResult, error) {
	var result SyncResult
	if !x.Enabled() {
		return result, ErrSearchDisabled
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     x.client.Client,
		Index:      IndexName,
		FlushBytes: 5e+6,
		NumWorkers: 1,
		Refresh:    x.refresh,
		OnError: func(_ context.Context, err error) {
			x.logger.Error("Bulk indexer error", zap.Error(err))
		},
	})
	if err != nil {
		return result, fmt.Errorf("error creating bulk indexer: %w", err)
	}

	offset, batchNumber := 0, 1
	for {
		projects, err := repo.FindAllForSync(ctx, offset, batchSize)
		if err != nil {
			_ = bi.Close(ctx)
			return result, fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(projects) == 0 {
			break
		}
		x.logger.Info("Queueing batch of projects", zap.Int("batchNumber", batchNumber), zap.Int("count", len(projects)))

		for i := range projects {
			p := &projects[i]
			doc, err := ToDocument(p)
			if err != nil {
				x.logger.Error("Failed to convert project to search document", zap.String("projectID", p.ID.String()), zap.Error(err))
				result.Failed++
				continue
			}
			err = bi.Add(ctx, esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: p.ID.String(),
				Body:       bytes.NewReader(doc),
				OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					reason := res.Error.Reason
					if err != nil {
						reason = err.Error()
					}
					x.logger.Error("Failed to index project", zap.String("projectID", item.DocumentID), zap.String("reason", reason))
				},
			})
			if err != nil {
				_ = bi.Close(ctx)
				return result, fmt.Errorf("error queueing project %s: %w", p.ID, err)
			}
		}

		offset += len(projects)
		batchNumber++
	}

	if err := bi.Close(ctx); err != nil {
		return result, fmt.Errorf("error flushing bulk indexer: %w", err)
	}

	stats := bi.Stats()
	result.Indexed = int(stats.NumIndexed)
	result.Failed += int(stats.NumFailed)
	x.logger.Info("Project synchronization finished",
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", result.Failed),
	)
	if result.Failed > 0 {
		return result, fmt.Errorf("%d projects failed to sync", result.Failed)
	}
	return result, nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
