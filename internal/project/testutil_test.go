package project

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/platform/elasticsearch"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "projects.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Project{}))
	return db
}

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	return NewGORMRepository(newTestDB(t), &config.Config{})
}

func strPtr(s string) *string { return &s }

// fakeES is an in-memory stand-in for the handful of Elasticsearch endpoints
// the project index touches. Search matches documents whose title contains the query.
type fakeES struct {
	mu        sync.Mutex
	docs      map[string]map[string]interface{}
	failIndex bool
	searches  int
}

func newFakeES() *fakeES {
	return &fakeES{docs: map[string]map[string]interface{}{}}
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	switch {
	case path == "":
		_, _ = w.Write([]byte(`{"version":{"number":"8.18.0"},"tagline":"You Know, for Search"}`))

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		if f.failIndex {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		var doc map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&doc)
		f.docs[parts[2]] = doc
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodDelete:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		delete(f.docs, parts[2])
		_, _ = w.Write([]byte(`{"result":"deleted"}`))

	case len(parts) == 2 && parts[1] == "_search":
		f.searches++
		var body struct {
			Query struct {
				MultiMatch struct {
					Query string `json:"query"`
				} `json:"multi_match"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		q := strings.ToLower(body.Query.MultiMatch.Query)

		type hit struct {
			ID string `json:"_id"`
		}
		hits := []hit{}
		for id, doc := range f.docs {
			title, _ := doc["title"].(string)
			if strings.Contains(strings.ToLower(title), q) {
				hits = append(hits, hit{ID: id})
			}
		}
		resp := map[string]interface{}{
			"hits": map[string]interface{}{
				"total": map[string]interface{}{"value": len(hits)},
				"hits":  hits,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)

	case parts[len(parts)-1] == "_bulk":
		f.serveBulk(w, r.Body)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func (f *fakeES) serveBulk(w http.ResponseWriter, body io.Reader) {
	type itemResult struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
	}
	var items []map[string]itemResult

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var action map[string]struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(line, &action); err != nil {
			continue
		}
		meta, ok := action["index"]
		if !ok {
			continue
		}
		if !scanner.Scan() {
			break
		}
		var doc map[string]interface{}
		_ = json.Unmarshal(scanner.Bytes(), &doc)
		f.docs[meta.ID] = doc
		items = append(items, map[string]itemResult{"index": {ID: meta.ID, Status: http.StatusCreated}})
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"took":   1,
		"errors": false,
		"items":  items,
	})
}

func (f *fakeES) setFailIndex(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failIndex = fail
}

func (f *fakeES) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func (f *fakeES) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func newTestIndex(t *testing.T) (*ESIndex, *fakeES) {
	t.Helper()
	fake := newFakeES()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(&config.Config{ElasticsearchURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	return NewESIndex(client, zap.NewNop()), fake
}
