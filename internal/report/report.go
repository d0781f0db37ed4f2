// Package report renders plans and repair outcomes for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dbsetup/internal/diff"
	"dbsetup/internal/repair"
)

const createPreviewLen = 100

// Rule is the separator line used between report sections.
var Rule = strings.Repeat("=", 60)

// ============================================================================
// OUTPUT FORMATTING
// ============================================================================

// PrintPlan writes plan as indented JSON or as a readable listing.
func PrintPlan(w io.Writer, plan *diff.Plan, asJSON bool) error {
	if asJSON {
		return printJSON(w, plan)
	}
	printPretty(w, plan)
	return nil
}

func printJSON(w io.Writer, plan *diff.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

func printPretty(w io.Writer, plan *diff.Plan) {
	if plan.Empty() {
		fmt.Fprintln(w, "✓ No schema differences found")
		return
	}

	fmt.Fprintln(w, Rule)
	fmt.Fprintln(w, "Schema Differences Found:")
	fmt.Fprintln(w, Rule)

	for _, fix := range plan.Tables {
		if fix.NeedsCreate() {
			fmt.Fprintf(w, "\n❌ Missing table: %s\n", fix.Table)
			fmt.Fprintln(w, "   table will be created")
			continue
		}
		fmt.Fprintf(w, "\n⚠️  Table needs changes: %s\n", fix.Table)
		for _, action := range fix.Actions {
			fmt.Fprintf(w, "   - %s\n", action.SQL)
		}
	}
	fmt.Fprintln(w)
}

// PrintRepair writes the outcome of every attempted statement followed
// by a summary line.
func PrintRepair(w io.Writer, rep *repair.Report) {
	for _, t := range rep.Tables {
		for _, o := range t.Outcomes {
			if t.Created {
				fmt.Fprintf(w, "\n[CREATE] %s\n", t.Table)
				if o.SQL != "" {
					fmt.Fprintf(w, "  SQL: %s\n", preview(o.SQL))
				}
			} else {
				fmt.Fprintf(w, "\n[ALTER] %s\n", t.Table)
				fmt.Fprintf(w, "  SQL: %s\n", o.SQL)
			}
			switch o.Status {
			case repair.StatusOK:
				fmt.Fprintln(w, "  [OK]")
			case repair.StatusFailed:
				fmt.Fprintf(w, "  [ERROR] %v\n", o.Err)
			case repair.StatusSkipped:
				fmt.Fprintln(w, "  [SKIPPED] no CREATE TABLE statement declared")
			}
		}
	}
	fmt.Fprintf(w, "\n%d applied, %d failed, %d skipped\n",
		rep.Count(repair.StatusOK), rep.Count(repair.StatusFailed), rep.Count(repair.StatusSkipped))
}

func preview(sql string) string {
	flat := strings.Join(strings.Fields(sql), " ")
	if len(flat) <= createPreviewLen {
		return flat
	}
	return flat[:createPreviewLen] + "..."
}
