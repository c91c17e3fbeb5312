package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newIndex(t *testing.T, fn roundTripFunc) *UserIndex {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: fn,
	})
	require.NoError(t, err)
	return NewUserIndex(es, "users")
}

func reply(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader(body))}
}

func TestIndexUser(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	idx := newIndex(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDoc))
		return reply(http.StatusCreated, `{"result":"created"}`), nil
	})

	u := &entity.User{
		ID: "u1", Username: "jane", Email: "jane@example.com",
		FirstName: "Jane", LastName: "Doe", DisplayName: "JD",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, idx.IndexUser(context.Background(), u))

	assert.Equal(t, "/users/_doc/u1", gotPath)
	assert.Equal(t, "Jane Doe", gotDoc["full_name"])
	assert.Equal(t, false, gotDoc["is_deleted"])
	assert.NotContains(t, gotDoc, "password_hash")
}

func TestIndexUserErrorStatus(t *testing.T) {
	idx := newIndex(t, func(*http.Request) (*http.Response, error) {
		return reply(http.StatusBadRequest, `{"error":"bad"}`), nil
	})
	assert.Error(t, idx.IndexUser(context.Background(), &entity.User{ID: "u1"}))
}

func TestSearchUsers(t *testing.T) {
	var query map[string]any
	idx := newIndex(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/users/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		return reply(http.StatusOK, `{"hits":{"hits":[{"_id":"b"},{"_id":"a"}]}}`), nil
	})

	ids, err := idx.SearchUsers(context.Background(), "jane", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.Equal(t, float64(5), query["size"])

	filter := query["query"].(map[string]any)["bool"].(map[string]any)["filter"]
	assert.Equal(t, map[string]any{"term": map[string]any{"is_deleted": false}}, filter)
}
