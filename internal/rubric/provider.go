package rubric

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
)

// Provider resolves named rubrics from the rubric service, degrading to the
// embedded default on any failure. Get never returns an error: a missing
// rubric service must not block scoring.
type Provider struct {
	baseURL string
	httpc   *http.Client
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	rubric  Rubric
	fetched time.Time
}

// NewProvider creates a rubric provider. An empty baseURL disables remote
// fetch; every Get resolves to the embedded default. ttl zero caches for
// the process lifetime.
func NewProvider(baseURL string, timeout, ttl time.Duration) *Provider {
	return &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		ttl:     ttl,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

// Get resolves a rubric by name. Results are cached per name; fallback
// results are cached too, since rubrics are assumed stable within a run.
func (p *Provider) Get(ctx context.Context, name string) Rubric {
	if name == "" {
		name = "default"
	}

	p.mu.Lock()
	if e, ok := p.cache[name]; ok {
		if p.ttl <= 0 || p.now().Sub(e.fetched) < p.ttl {
			p.mu.Unlock()
			return e.rubric
		}
		delete(p.cache, name)
	}
	p.mu.Unlock()

	r, err := p.fetch(ctx, name)
	if err != nil {
		clog.FromContext(ctx).Warnf("rubric %q unavailable, using embedded default: %v", name, err)
		r = Default()
		r.Name = name
	}

	p.mu.Lock()
	p.cache[name] = cacheEntry{rubric: r, fetched: p.now()}
	p.mu.Unlock()
	return r
}

// wire shapes for GET /rubrics/{name}:
// {"rubric": {"weights": {"communication": 0.2, ...}, "bands": {"0-39": "Needs Improvement", ...}}}
type rubricEnvelope struct {
	Rubric rubricBody `json:"rubric"`
}

type rubricBody struct {
	Weights map[string]float64 `json:"weights"`
	Bands   map[string]string  `json:"bands"`
}

func (p *Provider) fetch(ctx context.Context, name string) (Rubric, error) {
	if p.baseURL == "" {
		return Rubric{}, fmt.Errorf("no rubric service configured")
	}

	url := fmt.Sprintf("%s/rubrics/%s", p.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Rubric{}, err
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return Rubric{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rubric{}, fmt.Errorf("rubric service returned %d", resp.StatusCode)
	}

	var env rubricEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Rubric{}, fmt.Errorf("malformed rubric body: %w", err)
	}
	if len(env.Rubric.Weights) == 0 {
		return Rubric{}, fmt.Errorf("rubric %q has no weights", name)
	}

	bands, err := parseBands(env.Rubric.Bands)
	if err != nil {
		return Rubric{}, err
	}
	if len(bands) == 0 {
		bands = Default().Bands
	}

	return Rubric{Name: name, Weights: env.Rubric.Weights, Bands: bands}, nil
}

// parseBands converts the wire map {"lo-hi": label} into an ordered band
// table, sorted ascending by the lower bound so the first-match scan is
// deterministic.
func parseBands(raw map[string]string) ([]Band, error) {
	bands := make([]Band, 0, len(raw))
	for rng, label := range raw {
		var lo, hi int
		if _, err := fmt.Sscanf(rng, "%d-%d", &lo, &hi); err != nil {
			return nil, fmt.Errorf("malformed band range %q: %w", rng, err)
		}
		if hi < lo {
			return nil, fmt.Errorf("inverted band range %q", rng)
		}
		bands = append(bands, Band{Lo: lo, Hi: hi, Label: label})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Lo < bands[j].Lo })
	return bands, nil
}
