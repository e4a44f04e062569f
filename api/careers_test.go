package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seobright/careers/api"
	"github.com/seobright/careers/internal/config"
	dbpkg "github.com/seobright/careers/internal/db"
	"github.com/seobright/careers/internal/schema"
	"github.com/seobright/careers/internal/store"
)

func setupServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}

	st, err := store.New(ctx, d)
	if err != nil {
		d.Close()
		t.Fatalf("store.New: %v", err)
	}

	schemas, err := schema.NewRegistry()
	if err != nil {
		d.Close()
		t.Fatalf("schema.NewRegistry: %v", err)
	}

	cfg := &config.Config{
		Addr:         ":0",
		APITimeout:   15 * time.Second,
		DatabaseURL:  "file::memory:?cache=shared",
		DatabaseName: "careers",
	}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", st, schemas))
	return srv, func() { srv.Close(); d.Close() }
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}

	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return body
}

func createJob(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	res := postJSON(t, srv.URL+"/careers/jobs", map[string]any{
		"title":           "Senior SEO Strategist",
		"department":      "Organic",
		"location":        "Brighton, UK",
		"employment_type": "Full-time",
		"description":     "Lead strategy across enterprise SEO accounts.",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create job: expected 201 got %d", res.StatusCode)
	}
	body := decodeBody(t, res)
	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("create job: expected non-empty string id, got %v", body["id"])
	}

	return id
}

func TestJobRoundTrip(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	payload := map[string]any{
		"title":            "Performance Media Manager",
		"department":       "Media",
		"location":         "Hybrid / Brighton",
		"employment_type":  "Full-time",
		"description":      "Plan, launch and optimize paid campaigns.",
		"responsibilities": []any{"Own PPC across channels"},
		"requirements":     []any{"4+ years in performance media"},
		"salary_range":     "£40k–£55k DOE",
		"remote":           true,
	}

	res := postJSON(t, srv.URL+"/careers/jobs", payload)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}
	created := decodeBody(t, res)

	id, ok := created["id"].(string)
	if !ok || id == "" {
		t.Fatalf("expected non-empty string id, got %v", created["id"])
	}
	if _, ok := created["_id"]; ok {
		t.Fatalf("internal id field leaked: %v", created)
	}

	res2, err := http.Get(srv.URL + "/careers/jobs/" + id)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", res2.StatusCode)
	}
	fetched := decodeBody(t, res2)

	for k, want := range payload {
		if fmt.Sprint(fetched[k]) != fmt.Sprint(want) {
			t.Fatalf("round-trip mismatch on %s: sent %v got %v", k, want, fetched[k])
		}
	}
	if fetched["id"] != id {
		t.Fatalf("expected id %q, got %v", id, fetched["id"])
	}
}

func TestCreateJobDefaults(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	res := postJSON(t, srv.URL+"/careers/jobs", map[string]any{
		"title":           "Product Designer",
		"department":      "Creative",
		"location":        "Remote (UK)",
		"employment_type": "Contract",
		"description":     "Design product experiences.",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}
	created := decodeBody(t, res)

	if resp, ok := created["responsibilities"].([]any); !ok || len(resp) != 0 {
		t.Fatalf("expected empty responsibilities, got %v", created["responsibilities"])
	}
	if reqs, ok := created["requirements"].([]any); !ok || len(reqs) != 0 {
		t.Fatalf("expected empty requirements, got %v", created["requirements"])
	}
	if created["remote"] != false {
		t.Fatalf("expected remote false, got %v", created["remote"])
	}
	if created["salary_range"] != nil {
		t.Fatalf("expected salary_range null, got %v", created["salary_range"])
	}
}

func TestCreateJobValidationFailure(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	res := postJSON(t, srv.URL+"/careers/jobs", map[string]any{"title": "Only a title"})
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", res.StatusCode)
	}
	body := decodeBody(t, res)
	if body["detail"] == nil || body["detail"] == "" {
		t.Fatalf("expected a detail message, got %v", body)
	}
}

func TestGetJobIDValidation(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	// syntactically invalid id
	res, err := http.Get(srv.URL + "/careers/jobs/not-a-valid-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
	if body := decodeBody(t, res); body["detail"] != "Invalid job id" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}

	// well-formed but unknown id
	res2, err := http.Get(srv.URL + "/careers/jobs/" + uuid.NewString())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if res2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res2.StatusCode)
	}
	if body := decodeBody(t, res2); body["detail"] != "Job not found" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestListJobsInsertionOrder(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	titles := []string{"First Role", "Second Role", "Third Role"}
	for _, title := range titles {
		res := postJSON(t, srv.URL+"/careers/jobs", map[string]any{
			"title":           title,
			"department":      "Org",
			"location":        "Remote",
			"employment_type": "Full-time",
			"description":     "desc",
		})
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("create %s: expected 201 got %d", title, res.StatusCode)
		}
		res.Body.Close()
	}

	res, err := http.Get(srv.URL + "/careers/jobs")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var jobs []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	for i, want := range titles {
		if jobs[i]["title"] != want {
			t.Fatalf("expected %q at position %d, got %v", want, i, jobs[i]["title"])
		}
	}
}

func TestSeedIdempotentSequentially(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	res, err := http.Post(srv.URL+"/careers/seed", "application/json", nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}
	first := decodeBody(t, res)
	if first["seeded"] != true {
		t.Fatalf("expected seeded true, got %v", first)
	}
	if int(first["count"].(float64)) != 3 {
		t.Fatalf("expected count 3, got %v", first["count"])
	}
	if ids, ok := first["ids"].([]any); !ok || len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", first["ids"])
	}

	res2, err := http.Post(srv.URL+"/careers/seed", "application/json", nil)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if res2.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res2.StatusCode)
	}
	second := decodeBody(t, res2)
	if second["seeded"] != false {
		t.Fatalf("expected seeded false on second call, got %v", second)
	}

	res3, err := http.Get(srv.URL + "/careers/jobs")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer res3.Body.Close()
	var jobs []map[string]any
	if err := json.NewDecoder(res3.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected exactly 3 jobs after two seeds, got %d", len(jobs))
	}
}
