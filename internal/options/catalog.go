package options

import (
	"fmt"
	"slices"

	"reportfilter/internal/report"
)

// Entity maps an entity type onto its table or collection. Fields lists
// the columns a restriction may name; nothing else ever reaches a query.
type Entity struct {
	Type        string
	Table       string
	IDColumn    string
	LabelColumn string
	Fields      []string
}

func (e Entity) validate(r *report.Restriction) error {
	for _, field := range r.Fields() {
		if !slices.Contains(e.Fields, field) {
			return fmt.Errorf("%w: %q on %s", ErrUnknownField, field, e.Type)
		}
	}
	return nil
}

type Catalog struct {
	entities map[string]Entity
}

func NewCatalog(entities ...Entity) *Catalog {
	c := &Catalog{entities: make(map[string]Entity, len(entities))}
	for _, e := range entities {
		if e.IDColumn == "" {
			e.IDColumn = "id"
		}
		if e.LabelColumn == "" {
			e.LabelColumn = "label"
		}
		c.entities[e.Type] = e
	}
	return c
}

// DefaultCatalog covers the link targets of the builtin reports.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Entity{Type: report.EntityProject, Table: "projects"},
		Entity{Type: report.EntitySalesOrder, Table: "sales_orders", Fields: []string{report.FilterProject}},
		Entity{Type: report.EntityTask, Table: "tasks", Fields: []string{report.FilterProject}},
	)
}

func (c *Catalog) Lookup(entityType string) (Entity, error) {
	e, ok := c.entities[entityType]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	return e, nil
}

// resolve looks up the entity and checks every restricted field is allowed.
func (c *Catalog) resolve(entityType string, q Query) (Entity, error) {
	e, err := c.Lookup(entityType)
	if err != nil {
		return Entity{}, err
	}
	if err := e.validate(q.Restriction); err != nil {
		return Entity{}, err
	}
	return e, nil
}

// Collections maps each table or collection to its restrictable fields.
func (c *Catalog) Collections() map[string][]string {
	out := make(map[string][]string, len(c.entities))
	for _, e := range c.entities {
		out[e.Table] = append([]string(nil), e.Fields...)
	}
	return out
}
