package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docnav/internal/catalog"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/contentapi"
	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/dgallion1/docnav/internal/products"
	"github.com/dgallion1/docnav/internal/tutorials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

type fakeReindexer struct {
	jobs map[string]*pipeline.Job
	err  error
}

func (f *fakeReindexer) Submit(job *pipeline.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeReindexer) GetJob(id string) *pipeline.Job { return f.jobs[id] }
func (f *fakeReindexer) QueueDepth() int                { return len(f.jobs) }

type fakeStats struct{}

func (fakeStats) Stats() contentapi.Stats { return contentapi.Stats{Requests: 7} }

func newTestServer(t *testing.T) (*Server, *fakeReindexer) {
	t.Helper()
	data, err := os.ReadFile("../navtree/testdata/waypoint-nav-data.json")
	require.NoError(t, err)
	nav, err := navtree.DecodeJSON(data)
	require.NoError(t, err)

	reg := products.NewRegistry([]string{"vault", "waypoint"})
	idx, err := hvd.Load(context.Background(), fstest.MapFS{
		"terraform/operation-guides/index.yaml":             {Data: []byte("title: Operation Guides\n")},
		"terraform/operation-guides/adoption/index.yaml":    {Data: []byte("title: Adoption\n")},
		"terraform/operation-guides/adoption/01-overview.md": {Data: []byte("# Overview\n\n## People\n\nText.\n")},
	}, reg, nil)
	require.NoError(t, err)

	cat := catalog.New()
	cat.Swap(&catalog.Snapshot{
		JobID: "seed",
		Nav:   map[catalog.Key][]navtree.NavNode{{Product: "waypoint", Section: "docs"}: nav},
		HVD:   idx,
	})

	rw, err := tutorials.NewRewriter("", reg, nil)
	require.NoError(t, err)

	reindexer := &fakeReindexer{jobs: map[string]*pipeline.Job{}}
	cfg := config.Config{DocnavAPIKey: testAPIKey, MaxBodyBytes: 1 << 20}
	srv := NewServer(Deps{
		Catalog:   cat,
		Reindexer: reindexer,
		Content:   fakeStats{},
		Rewriter:  rw,
		Registry:  reg,
	}, nil, cfg)
	return srv, reindexer
}

func do(t *testing.T, srv http.Handler, method, path, body string, auth bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth {
		req.Header.Set("Authorization", "Bearer "+testAPIKey)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, body := do(t, srv, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestDocsBreadcrumbs(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := do(t, srv, http.MethodGet, "/api/breadcrumbs/waypoint/docs/intro/vs/heroku", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"breadcrumbs":[
		{"title":"Developer","url":"/"},
		{"title":"Waypoint","url":"/waypoint"},
		{"title":"Docs","url":"/waypoint/docs"},
		{"title":"Introduction","url":"/waypoint/docs/intro"},
		{"title":"Waypoint vs. Other Software","url":"/waypoint/docs/intro/vs"},
		{"title":"Heroku","url":"/waypoint/docs/intro/vs/heroku","isCurrentPage":true}
	]}`, rec.Body.String())

	rec, _ = do(t, srv, http.MethodGet, "/api/breadcrumbs/waypoint/docs", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"title":"Docs","url":"/waypoint/docs","isCurrentPage":true}`)

	rec, _ = do(t, srv, http.MethodGet, "/api/breadcrumbs/waypoint/docs/intro/index", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"title":"Introduction","url":"/waypoint/docs/intro","isCurrentPage":true}`)
}

func TestDocsBreadcrumbs_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/api/breadcrumbs/waypoint/docs/intro/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "not found")

	rec, _ = do(t, srv, http.MethodGet, "/api/breadcrumbs/vault/docs/intro", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveBreadcrumbs(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"basePath":"waypoint/docs","pathParts":["getting-started"],"navData":[{"title":"Getting Started","path":"getting-started"}]}`

	rec, _ := do(t, srv, http.MethodPost, "/api/breadcrumbs/resolve", body, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"breadcrumbs":[{"title":"Getting Started","url":"/waypoint/docs/getting-started","isCurrentPage":true}]}`, rec.Body.String())

	rec, _ = do(t, srv, http.MethodPost, "/api/breadcrumbs/resolve", `{"basePath":"x"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, srv, http.MethodPost, "/api/breadcrumbs/resolve", `{not json`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVariableTree(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"variables":[
		{"key":"vpc.id","type":"string","description":"The **VPC** id","required":true},
		{"key":"region","type":"string","required":false}
	]}`

	rec, _ := do(t, srv, http.MethodPost, "/api/variables/tree", body, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"variables":[
		{"key":"region","type":"string","required":false},
		{"key":"vpc","type":"category","required":null,"variables":[
			{"key":"vpc.id","type":"string","description":"The **VPC** id","descriptionHtml":"<p>The <strong>VPC</strong> id</p>","required":true}
		]}
	]}`, rec.Body.String())
}

func TestVariableTree_InvalidKeys(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"variables":[{"key":"a..b","type":"string"},{"key":"ok","type":"string"}]}`

	rec, _ := do(t, srv, http.MethodPost, "/api/variables/tree", body, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	lenient := `{"lenient":true,"variables":[{"key":"a..b","type":"string"},{"key":"ok","type":"string"}]}`
	rec, out := do(t, srv, http.MethodPost, "/api/variables/tree", lenient, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["variables"], 1)
	warnings := out["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Equal(t, "a..b", warnings[0].(map[string]any)["key"])
}

func TestValidatedDesigns(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/api/validated-designs", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HashiCorp Validated Designs", body["title"])

	rec, _ = do(t, srv, http.MethodGet, "/api/validated-designs/paths", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"paths":[["terraform-operation-guides-adoption"],["terraform-operation-guides-adoption","overview"]]}`, rec.Body.String())

	rec, body = do(t, srv, http.MethodGet, "/api/validated-designs/terraform-operation-guides-adoption", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "overview", body["title"])
	assert.Len(t, body["headings"], 2)

	rec, _ = do(t, srv, http.MethodGet, "/api/validated-designs/terraform-operation-guides-adoption/missing", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTutorialEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPost, "/api/tutorial-links/rewrite",
		`{"links":["/collections/vault/getting-started","https://example.com"]}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"links":["/vault/tutorials/getting-started","https://example.com"]}`, rec.Body.String())

	rec, body := do(t, srv, http.MethodPost, "/api/tutorials/render",
		`{"markdown":"See [this](/collections/waypoint/deploy-aws)."}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["html"], `href="/waypoint/tutorials/deploy-aws"`)

	rec, _ = do(t, srv, http.MethodPost, "/api/tutorials/render", `{}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReindex_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := do(t, srv, http.MethodPost, "/api/reindex", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReindex_SubmitAndStatus(t *testing.T) {
	srv, reindexer := newTestServer(t)

	rec, body := do(t, srv, http.MethodPost, "/api/reindex", "", true)
	require.Equal(t, http.StatusAccepted, rec.Code)
	jobID := body["job_id"].(string)
	assert.Contains(t, reindexer.jobs, jobID)
	assert.Equal(t, "/api/reindex/"+jobID+"/status", body["poll_url"])

	rec, body = do(t, srv, http.MethodGet, "/api/reindex/"+jobID+"/status", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "queued", body["status"])

	rec, _ = do(t, srv, http.MethodGet, "/api/reindex/nope/status", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	reindexer.err = pipeline.ErrQueueFull
	rec, _ = do(t, srv, http.MethodPost, "/api/reindex", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContentStats(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, body := do(t, srv, http.MethodGet, "/api/stats/content", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, body["content_api"].(map[string]any)["requests"])
}

func TestMaxBody(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.cfg.MaxBodyBytes = 16
	srv.setupRoutes()

	rec, _ := do(t, srv, http.MethodPost, "/api/variables/tree", `{"variables":[{"key":"aaaaaaaaaaaaaaaa"}]}`, false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
