package report

const (
	ReportSCurve = "S-Curve Report"
	ReportBOQ    = "BOQ Report"
)

const (
	FilterProject    = "project"
	FilterSalesOrder = "sales_order"
	FilterTask       = "task"
)

const (
	EntityProject    = "Project"
	EntitySalesOrder = "Sales Order"
	EntityTask       = "Task"
)

func SCurveFilters() *FilterSet {
	return NewFilterSet(ReportSCurve,
		FilterDefinition{
			Name:     FilterProject,
			Label:    "Project",
			Type:     FieldTypeLink,
			Options:  EntityProject,
			Required: true,
		},
	)
}

func BOQFilters() *FilterSet {
	return NewFilterSet(ReportBOQ,
		FilterDefinition{
			Name:     FilterProject,
			Label:    "Project",
			Type:     FieldTypeLink,
			Options:  EntityProject,
			Required: true,
		},
		FilterDefinition{
			Name:      FilterSalesOrder,
			Label:     "Sales Order",
			Type:      FieldTypeLink,
			Options:   EntitySalesOrder,
			DependsOn: []string{FilterProject},
		},
		FilterDefinition{
			Name:      FilterTask,
			Label:     "Task",
			Type:      FieldTypeLink,
			Options:   EntityTask,
			DependsOn: []string{FilterProject},
		},
	)
}

func Builtin() []*FilterSet {
	return []*FilterSet{SCurveFilters(), BOQFilters()}
}

// NewBuiltinRegistry returns a registry holding the builtin reports.
func NewBuiltinRegistry() (*Registry, error) {
	return NewRegistryWith(Builtin()...)
}
