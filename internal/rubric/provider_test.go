package rubric

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGet_FetchesNamedRubric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rubrics/senior" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"rubric": {"weights": {"communication": 1.0}, "bands": {"0-49": "Low", "50-100": "High"}}}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, 0)
	r := p.Get(context.Background(), "senior")

	if r.Name != "senior" {
		t.Fatalf("expected name senior, got %q", r.Name)
	}
	if r.Weights[Communication] != 1.0 {
		t.Fatalf("unexpected weights: %v", r.Weights)
	}
	if len(r.Bands) != 2 || r.Bands[0].Label != "Low" || r.Bands[1].Lo != 50 {
		t.Fatalf("bands not parsed/sorted: %+v", r.Bands)
	}
}

func TestGet_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, 0)
	r := p.Get(context.Background(), "default")

	def := Default()
	if len(r.Weights) != len(def.Weights) {
		t.Fatalf("expected embedded default weights, got %v", r.Weights)
	}
	if len(r.Bands) != 5 {
		t.Fatalf("expected 5 default bands, got %d", len(r.Bands))
	}
}

func TestGet_FallsBackWhenUnreachable(t *testing.T) {
	// Rubric service down entirely; the engine must still produce a
	// coherent band label.
	p := NewProvider("http://127.0.0.1:1", 50*time.Millisecond, 0)
	r := p.Get(context.Background(), "default")

	if r.Weights[ProblemSolving] == 0 {
		t.Fatalf("expected embedded default, got %v", r.Weights)
	}
}

func TestGet_FallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rubric": "not-an-object"`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, 0)
	r := p.Get(context.Background(), "default")

	if r.Weights[Communication] != Default().Weights[Communication] {
		t.Fatalf("expected embedded default, got %v", r.Weights)
	}
}

func TestGet_CachesPerName(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"rubric": {"weights": {"communication": 0.5}, "bands": {"0-100": "Any"}}}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, 0)
	p.Get(context.Background(), "default")
	p.Get(context.Background(), "default")
	p.Get(context.Background(), "default")

	if hits.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", hits.Load())
	}
}

func TestGet_TTLExpiresCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"rubric": {"weights": {"communication": 0.5}, "bands": {"0-100": "Any"}}}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, time.Minute)
	clock := time.Now()
	p.now = func() time.Time { return clock }

	p.Get(context.Background(), "default")
	clock = clock.Add(2 * time.Minute)
	p.Get(context.Background(), "default")

	if hits.Load() != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", hits.Load())
	}
}

func TestCriteriaFor(t *testing.T) {
	desc := CriteriaFor("descriptive")
	if len(desc) != 3 || desc[0] != Communication || desc[1] != ProblemSolving || desc[2] != ExplanationQuality {
		t.Fatalf("unexpected descriptive criteria: %v", desc)
	}
	code := CriteriaFor("coding")
	if len(code) != 3 || code[0] != CodingCorrectness {
		t.Fatalf("unexpected coding criteria: %v", code)
	}
	if CriteriaFor("mcq") != nil {
		t.Fatal("mcq should have no judge criteria")
	}
}
