package diff

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dbsetup/internal/schema"
)

const declaration = `
CREATE TABLE IF NOT EXISTS projects (
    project_id VARCHAR(64) NOT NULL COMMENT 'project id',
    project_name VARCHAR(255) NOT NULL,
    PRIMARY KEY (project_id)
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS users (
    user_id INT(11) NOT NULL,
    user_name VARCHAR(64) NOT NULL DEFAULT 'guest' COMMENT 'login name',
    is_super TINYINT(1) NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id)
) ENGINE=InnoDB;
`

// liveCopy simulates DESCRIBE output for a freshly created table.
func liveCopy(t *schema.Table) *schema.Table {
	live := schema.NewTable(t.Name)
	for _, c := range t.Columns {
		live.Add(&schema.Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable, Default: c.Default})
	}
	return live
}

func liveColumn(name, typ string, nullable bool, def string) *schema.Column {
	col := &schema.Column{Name: name, Type: typ, Nullable: nullable}
	if def != "" {
		col.Default = &def
	}
	return col
}

func TestComputeReflexive(t *testing.T) {
	expected := schema.Parse(declaration)
	present := map[string]bool{}
	actual := map[string]*schema.Table{}
	for _, tbl := range expected.Tables {
		present[tbl.Name] = true
		actual[tbl.Name] = liveCopy(tbl)
	}

	plan := Compute(expected, present, actual)
	if !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan.Tables)
	}
}

func TestComputeMissingTable(t *testing.T) {
	expected := schema.Parse(declaration)
	projects, _ := expected.Table("projects")

	plan := Compute(expected, map[string]bool{"projects": true}, map[string]*schema.Table{
		"projects": liveCopy(projects),
	})

	fix, ok := plan.Table("users")
	if !ok {
		t.Fatal("expected users in plan")
	}
	if !fix.NeedsCreate() || len(fix.Actions) != 1 || fix.Actions[0].SQL != CreateTable {
		t.Fatalf("users actions = %+v", fix.Actions)
	}
}

func TestComputeMissingColumnClauses(t *testing.T) {
	expected := schema.Parse(declaration)
	live := schema.NewTable("users")
	live.Add(liveColumn("user_id", "int", false, ""))
	live.Add(liveColumn("is_super", "tinyint(1)", false, "0"))

	plan := Compute(expected, map[string]bool{"projects": true, "users": true}, map[string]*schema.Table{
		"projects": liveCopy(mustTable(t, expected, "projects")),
		"users":    live,
	})

	fix, ok := plan.Table("users")
	if !ok {
		t.Fatal("expected users in plan")
	}
	if len(fix.Actions) != 1 {
		t.Fatalf("actions = %+v, want exactly one", fix.Actions)
	}
	got := fix.Actions[0]
	want := "ADD COLUMN user_name VARCHAR(64) NOT NULL DEFAULT 'guest' COMMENT 'login name'"
	if got.Kind != ActionAddColumn || got.Column != "user_name" || got.SQL != want {
		t.Fatalf("action = %+v, want %q", got, want)
	}
}

func TestComputeNullableColumnHasNoClauses(t *testing.T) {
	expected := schema.Parse(`CREATE TABLE IF NOT EXISTS notes (
    note_id INT NOT NULL,
    body TEXT
) ENGINE=InnoDB;`)
	live := schema.NewTable("notes")
	live.Add(liveColumn("note_id", "int", false, ""))

	plan := Compute(expected, map[string]bool{"notes": true}, map[string]*schema.Table{"notes": live})
	fix, _ := plan.Table("notes")
	if fix == nil || len(fix.Actions) != 1 || fix.Actions[0].SQL != "ADD COLUMN body TEXT" {
		t.Fatalf("plan = %+v", plan.Tables)
	}
}

func TestComputeTypeMismatch(t *testing.T) {
	expected := schema.Parse(declaration)
	live := liveCopy(mustTable(t, expected, "projects"))
	name, _ := live.Column("project_name")
	name.Type = "VARCHAR(100)"

	plan := Compute(expected, map[string]bool{"projects": true}, map[string]*schema.Table{"projects": live})
	fix, ok := plan.Table("projects")
	if !ok || len(fix.Actions) != 1 {
		t.Fatalf("plan = %+v", plan.Tables)
	}
	if fix.Actions[0].Kind != ActionModifyColumn || fix.Actions[0].SQL != "MODIFY COLUMN project_name VARCHAR(255) NOT NULL" {
		t.Fatalf("action = %+v", fix.Actions[0])
	}
}

func TestComputeIgnoresDefaultAndNullabilityDrift(t *testing.T) {
	expected := schema.Parse(declaration)
	live := schema.NewTable("users")
	live.Add(liveColumn("user_id", "INT", true, "7"))
	live.Add(liveColumn("user_name", "varchar(64)", true, "admin"))
	live.Add(liveColumn("is_super", "TINYINT(1)", false, "1"))

	plan := Compute(expected, map[string]bool{"projects": true, "users": true}, map[string]*schema.Table{
		"projects": liveCopy(mustTable(t, expected, "projects")),
		"users":    live,
	})
	if !plan.Empty() {
		t.Fatalf("expected no actions, got %+v", plan.Tables)
	}
}

func TestComputeScenario(t *testing.T) {
	expected := schema.Parse(`
CREATE TABLE IF NOT EXISTS projects (
    project_id VARCHAR(64) NOT NULL,
    project_name VARCHAR(255) NOT NULL
) ENGINE=InnoDB;
CREATE TABLE IF NOT EXISTS users (
    user_id INT NOT NULL,
    user_name VARCHAR(64) NOT NULL
) ENGINE=InnoDB;
`)
	live := schema.NewTable("projects")
	live.Add(liveColumn("project_id", "varchar(64)", false, ""))
	live.Add(liveColumn("project_name", "varchar(255)", false, ""))
	live.Add(liveColumn("legacy_code", "varchar(16)", true, ""))

	plan := Compute(expected, map[string]bool{"projects": true, "legacy": true}, map[string]*schema.Table{"projects": live})

	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"users":["CREATE_TABLE"]}` {
		t.Fatalf("plan = %s", data)
	}
}

func TestComputeOrderFollowsDeclaration(t *testing.T) {
	expected := schema.Parse(`
CREATE TABLE IF NOT EXISTS zeta (
    c VARCHAR(1),
    a VARCHAR(1),
    b VARCHAR(1)
) ENGINE=InnoDB;
CREATE TABLE IF NOT EXISTS alpha (
    id INT
) ENGINE=InnoDB;
`)
	plan := Compute(expected, map[string]bool{"zeta": true}, map[string]*schema.Table{"zeta": schema.NewTable("zeta")})

	data, _ := json.Marshal(plan)
	want := `{"zeta":["ADD COLUMN c VARCHAR(1)","ADD COLUMN a VARCHAR(1)","ADD COLUMN b VARCHAR(1)"],"alpha":["CREATE_TABLE"]}`
	if string(data) != want {
		t.Fatalf("plan = %s\nwant %s", data, want)
	}
}

type fakeInspector struct {
	tables    map[string]bool
	columns   map[string]*schema.Table
	described []string
	err       error
}

func (f *fakeInspector) Tables(context.Context) (map[string]bool, error) {
	return f.tables, f.err
}

func (f *fakeInspector) Columns(_ context.Context, table string) (*schema.Table, error) {
	f.described = append(f.described, table)
	return f.columns[table], nil
}

func TestCheckDescribesOnlyPresentDeclaredTables(t *testing.T) {
	expected := schema.Parse(declaration)
	ins := &fakeInspector{
		tables:  map[string]bool{"projects": true, "orphan": true},
		columns: map[string]*schema.Table{"projects": liveCopy(mustTable(t, expected, "projects"))},
	}

	plan, err := Check(context.Background(), expected, ins)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(ins.described) != 1 || ins.described[0] != "projects" {
		t.Fatalf("described = %v", ins.described)
	}
	if len(plan.Tables) != 1 || !plan.Tables[0].NeedsCreate() || plan.Tables[0].Table != "users" {
		t.Fatalf("plan = %+v", plan.Tables)
	}
}

func TestCheckPropagatesInspectorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Check(context.Background(), schema.Parse(declaration), &fakeInspector{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestEmptyPlanJSON(t *testing.T) {
	data, err := json.Marshal(&Plan{})
	if err != nil || string(data) != "{}" {
		t.Fatalf("json = %s, %v", data, err)
	}
}

func mustTable(t *testing.T, s *schema.Schema, name string) *schema.Table {
	t.Helper()
	tbl, ok := s.Table(name)
	if !ok {
		t.Fatalf("table %s missing", name)
	}
	return tbl
}
