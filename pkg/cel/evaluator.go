package cel

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"reportfilter/internal/report"
)

const (
	// EntityVariable is the CEL variable holding an entity's string fields.
	EntityVariable = "entity"

	// FieldsVariable and ValuesVariable hold a restriction's condition
	// fields and expected values. Binding them keeps arbitrary bytes out
	// of the expression source.
	FieldsVariable = "restriction_fields"
	ValuesVariable = "restriction_values"
)

type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(EntityVariable, cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable(FieldsVariable, cel.ListType(cel.StringType)),
		cel.Variable(ValuesVariable, cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

// RestrictionExpression renders r as a CEL predicate over the entity map.
// Condition i reads its field and value from index i of the bound lists.
// A nil restriction renders as "true".
func RestrictionExpression(r *report.Restriction) string {
	if r == nil || len(r.Conditions) == 0 {
		return "true"
	}

	parts := make([]string, 0, len(r.Conditions))
	for i := range r.Conditions {
		field := fmt.Sprintf("%s[%d]", FieldsVariable, i)
		parts = append(parts, fmt.Sprintf("(%s in %s && %s[%s] == %s[%d])",
			field, EntityVariable, EntityVariable, field, ValuesVariable, i))
	}
	return strings.Join(parts, " && ")
}

func (e *Evaluator) CompileRestriction(r *report.Restriction) (cel.Program, error) {
	var fields, values []string
	if r != nil {
		fields = make([]string, 0, len(r.Conditions))
		values = make([]string, 0, len(r.Conditions))
		for _, c := range r.Conditions {
			fields = append(fields, c.Field)
			values = append(values, c.Equals)
		}
	}

	return e.compile(RestrictionExpression(r), cel.Globals(map[string]any{
		FieldsVariable: fields,
		ValuesVariable: values,
	}))
}

func (e *Evaluator) compile(expression string, opts ...cel.ProgramOption) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("restriction expression must return bool, got %v", ast.OutputType())
	}

	program, err := e.env.Program(ast, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return program, nil
}

func (e *Evaluator) Matches(ctx context.Context, program cel.Program, fields map[string]string) (bool, error) {
	if fields == nil {
		fields = map[string]string{}
	}

	result, _, err := program.ContextEval(ctx, map[string]interface{}{
		EntityVariable: fields,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}
