package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"dbsetup/internal/diff"
	"dbsetup/internal/repair"
)

func samplePlan() *diff.Plan {
	return &diff.Plan{Tables: []*diff.TableFix{
		{Table: "users", Actions: []diff.Action{{Kind: diff.ActionCreateTable, SQL: diff.CreateTable}}},
		{Table: "projects", Actions: []diff.Action{
			{Kind: diff.ActionAddColumn, Column: "owner", SQL: "ADD COLUMN owner VARCHAR(64)"},
		}},
	}}
}

func TestPrintPlanPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintPlan(&buf, samplePlan(), false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Missing table: users", "Table needs changes: projects", "- ADD COLUMN owner VARCHAR(64)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "users") > strings.Index(out, "projects") {
		t.Error("tables must print in plan order")
	}
}

func TestPrintPlanEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintPlan(&buf, &diff.Plan{}, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No schema differences found") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestPrintPlanJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintPlan(&buf, samplePlan(), true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"users\": [\n    \"CREATE_TABLE\"\n  ],\n  \"projects\": [\n    \"ADD COLUMN owner VARCHAR(64)\"\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("json = %q\nwant %q", buf.String(), want)
	}
}

func TestPrintRepair(t *testing.T) {
	long := "CREATE TABLE IF NOT EXISTS users (" + strings.Repeat(" col INT,", 30) + ") ENGINE=InnoDB;"
	rep := &repair.Report{Tables: []*repair.TableOutcome{
		{Table: "users", Created: true, Outcomes: []repair.Outcome{{SQL: long, Status: repair.StatusOK}}},
		{Table: "projects", Outcomes: []repair.Outcome{
			{SQL: "ALTER TABLE projects ADD COLUMN owner VARCHAR(64)", Status: repair.StatusFailed, Err: errors.New("duplicate column")},
		}},
		{Table: "orders", Created: true, Outcomes: []repair.Outcome{{Status: repair.StatusSkipped}}},
	}}

	var buf bytes.Buffer
	PrintRepair(&buf, rep)
	out := buf.String()
	for _, want := range []string{"[CREATE] users", "...", "[ALTER] projects", "[ERROR] duplicate column", "[SKIPPED]", "1 applied, 1 failed, 1 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
