package options

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"reportfilter/internal/constants"
	"reportfilter/pkg/cel"
)

// Record is an in-memory entity. Fields holds the columns a restriction
// may match against.
type Record struct {
	ID     string            `yaml:"id"`
	Label  string            `yaml:"label,omitempty"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// MemoryProvider keeps entities in process and filters them with a CEL
// program compiled from the restriction.
type MemoryProvider struct {
	mu        sync.RWMutex
	catalog   *Catalog
	evaluator *cel.Evaluator
	records   map[string][]Record
}

func NewMemoryProvider(catalog *Catalog) (*MemoryProvider, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}

	return &MemoryProvider{
		catalog:   catalog,
		evaluator: evaluator,
		records:   make(map[string][]Record),
	}, nil
}

func (p *MemoryProvider) Name() string {
	return constants.SourceTypeMemory
}

// Add stores records under entityType, replacing any with the same ID.
func (p *MemoryProvider) Add(entityType string, records ...Record) error {
	if _, err := p.catalog.Lookup(entityType); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	byID := make(map[string]Record, len(p.records[entityType])+len(records))
	for _, r := range p.records[entityType] {
		byID[r.ID] = r
	}
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%s record without id", entityType)
		}
		byID[r.ID] = r
	}

	merged := make([]Record, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	p.records[entityType] = merged

	return nil
}

// LoadFixtures reads a YAML document mapping entity type to records.
func (p *MemoryProvider) LoadFixtures(r io.Reader) error {
	var fixtures map[string][]Record
	if err := yaml.NewDecoder(r).Decode(&fixtures); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode fixtures: %w", err)
	}

	types := make([]string, 0, len(fixtures))
	for t := range fixtures {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		if err := p.Add(t, fixtures[t]...); err != nil {
			return err
		}
	}
	return nil
}

func (p *MemoryProvider) LoadFixturesFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()
	return p.LoadFixtures(f)
}

func (p *MemoryProvider) Query(ctx context.Context, entityType string, q Query) (Sequence, error) {
	if _, err := p.catalog.resolve(entityType, q); err != nil {
		return nil, err
	}

	program, err := p.evaluator.CompileRestriction(q.Restriction)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	records := p.records[entityType]
	p.mu.RUnlock()

	search := strings.ToLower(q.Search)

	seq := func(yield func(Option, error) bool) {
		emitted := 0
		for _, r := range records {
			if q.Limit > 0 && emitted >= q.Limit {
				return
			}
			if err := ctx.Err(); err != nil {
				yield(Option{}, err)
				return
			}

			ok, err := p.evaluator.Matches(ctx, program, r.Fields)
			if err != nil {
				yield(Option{}, err)
				return
			}
			if !ok || !matchesSearch(r, search) {
				continue
			}

			emitted++
			if !yield(Option{Value: r.ID, Label: r.Label}, nil) {
				return
			}
		}
	}

	return observe(seq, entityType, p.Name()), nil
}

func matchesSearch(r Record, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.ID), search) ||
		strings.Contains(strings.ToLower(r.Label), search)
}
