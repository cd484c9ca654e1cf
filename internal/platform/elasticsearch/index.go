package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// EnsureIndex creates index with the given mapping body if it does not exist yet.
func EnsureIndex(ctx context.Context, client *ESClientWrapper, index, mappingJSON string, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup").With(zap.String("index_name", index))

	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if index %s exists: %w", index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Info("Index already exists")
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking if index %s exists: status %s", index, res.Status())
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err == nil {
			log.Error("Failed to create index", zap.String("status", createRes.Status()), zap.Any("error_details", errorBody))
		}
		return fmt.Errorf("failed to create index %s: status %s", index, createRes.Status())
	}

	log.Info("Index created successfully")
	return nil
}
