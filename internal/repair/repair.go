// Package repair applies a diff.Plan to a live database, one statement
// at a time.
package repair

import (
	"context"
	"log/slog"

	"dbsetup/internal/diff"
)

// Executor runs and commits a single statement.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// Source supplies verbatim CREATE TABLE statements.
type Source interface {
	CreateStatement(table string) (string, bool)
}

// Status is the outcome of one statement.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records one attempted statement.
type Outcome struct {
	SQL    string
	Status Status
	Err    error
}

// TableOutcome groups the outcomes for one table.
type TableOutcome struct {
	Table    string
	Created  bool
	Outcomes []Outcome
}

// Report is the per-table log of a repair run.
type Report struct {
	Tables []*TableOutcome
}

// Count returns how many statements ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, t := range r.Tables {
		for _, o := range t.Outcomes {
			if o.Status == s {
				n++
			}
		}
	}
	return n
}

// Repairer applies plans.
type Repairer struct {
	exec   Executor
	source Source
	logger *slog.Logger
}

// New returns a Repairer.
func New(exec Executor, source Source, logger *slog.Logger) *Repairer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repairer{exec: exec, source: source, logger: logger}
}

// Apply runs every action in plan. A failing statement is recorded and
// the run moves on; Apply itself never fails.
func (r *Repairer) Apply(ctx context.Context, plan *diff.Plan) *Report {
	report := &Report{}
	if plan.Empty() {
		return report
	}
	for _, fix := range plan.Tables {
		out := &TableOutcome{Table: fix.Table}
		if fix.NeedsCreate() {
			out.Created = true
			out.Outcomes = append(out.Outcomes, r.create(ctx, fix.Table))
		} else {
			for _, action := range fix.Actions {
				out.Outcomes = append(out.Outcomes, r.alter(ctx, fix.Table, action))
			}
		}
		report.Tables = append(report.Tables, out)
	}
	return report
}

func (r *Repairer) create(ctx context.Context, table string) Outcome {
	stmt, ok := r.source.CreateStatement(table)
	if !ok {
		r.logger.Warn("no create statement declared", "table", table)
		return Outcome{Status: StatusSkipped}
	}
	r.logger.Info("creating table", "table", table)
	return r.run(ctx, table, stmt)
}

func (r *Repairer) alter(ctx context.Context, table string, action diff.Action) Outcome {
	stmt := "ALTER TABLE " + table + " " + action.SQL
	r.logger.Info("altering table", "table", table, "column", action.Column, "action", action.Kind.String())
	return r.run(ctx, table, stmt)
}

func (r *Repairer) run(ctx context.Context, table, stmt string) Outcome {
	if err := r.exec.Exec(ctx, stmt); err != nil {
		r.logger.Error("statement failed", "table", table, "sql", stmt, "error", err)
		return Outcome{SQL: stmt, Status: StatusFailed, Err: err}
	}
	return Outcome{SQL: stmt, Status: StatusOK}
}
