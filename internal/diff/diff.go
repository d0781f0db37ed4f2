// Package diff compares a declared schema against a live one and builds
// the corrective plan.
package diff

import (
	"context"
	"fmt"
	"strings"

	"dbsetup/internal/schema"
)

// Inspector reports the live structure of a database.
type Inspector interface {
	Tables(ctx context.Context) (map[string]bool, error)
	Columns(ctx context.Context, table string) (*schema.Table, error)
}

// Check inspects the declared tables that exist in the live database and
// computes the plan against them.
func Check(ctx context.Context, expected *schema.Schema, inspector Inspector) (*Plan, error) {
	present, err := inspector.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	actual := make(map[string]*schema.Table)
	for _, t := range expected.Tables {
		if !present[t.Name] {
			continue
		}
		cols, err := inspector.Columns(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", t.Name, err)
		}
		actual[t.Name] = cols
	}

	return Compute(expected, present, actual), nil
}

// ============================================================================
// DIFF ENGINE
// ============================================================================

// Compute builds the plan that brings the live tables in line with
// expected. Columns that only exist live are never flagged.
func Compute(expected *schema.Schema, present map[string]bool, actual map[string]*schema.Table) *Plan {
	plan := &Plan{}
	for _, t := range expected.Tables {
		if !present[t.Name] {
			plan.Tables = append(plan.Tables, &TableFix{
				Table:   t.Name,
				Actions: []Action{{Kind: ActionCreateTable, SQL: CreateTable}},
			})
			continue
		}

		live := actual[t.Name]
		if live == nil {
			live = schema.NewTable(t.Name)
		}
		if actions := compareTable(t, live); len(actions) > 0 {
			plan.Tables = append(plan.Tables, &TableFix{Table: t.Name, Actions: actions})
		}
	}
	return plan
}

// Only type drift produces MODIFY COLUMN. Nullability and default drift
// on an otherwise matching column are not reported.
func compareTable(expected, actual *schema.Table) []Action {
	var actions []Action
	for _, col := range expected.Columns {
		live, ok := actual.Column(col.Name)
		if !ok {
			actions = append(actions, Action{
				Kind:   ActionAddColumn,
				Column: col.Name,
				SQL:    "ADD COLUMN " + columnDefinition(col),
			})
			continue
		}
		if schema.NormalizeType(col.Type) != schema.NormalizeType(live.Type) {
			actions = append(actions, Action{
				Kind:   ActionModifyColumn,
				Column: col.Name,
				SQL:    "MODIFY COLUMN " + columnDefinition(col),
			})
		}
	}
	return actions
}

func columnDefinition(col *schema.Column) string {
	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteByte(' ')
	b.WriteString(col.Type)
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.Default != nil && *col.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(*col.Default)
	}
	if col.Comment != nil && *col.Comment != "" {
		fmt.Fprintf(&b, " COMMENT '%s'", *col.Comment)
	}
	return b.String()
}
