package diff

import (
	"bytes"
	"encoding/json"
)

// CreateTable is the action recorded for a declared table missing from
// the live database.
const CreateTable = "CREATE_TABLE"

// ActionKind classifies a corrective action.
type ActionKind int

const (
	ActionCreateTable ActionKind = iota
	ActionAddColumn
	ActionModifyColumn
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreateTable:
		return "create"
	case ActionAddColumn:
		return "add"
	case ActionModifyColumn:
		return "modify"
	default:
		return "unknown"
	}
}

// Action is a single corrective step for a table. For column actions SQL
// holds the ALTER TABLE suffix, e.g. "ADD COLUMN name VARCHAR(64)".
type Action struct {
	Kind   ActionKind
	Column string
	SQL    string
}

// TableFix lists the actions for one table.
type TableFix struct {
	Table   string
	Actions []Action
}

// NeedsCreate reports whether the table is missing entirely.
func (f *TableFix) NeedsCreate() bool {
	return len(f.Actions) == 1 && f.Actions[0].Kind == ActionCreateTable
}

// Statements returns the action SQL in order.
func (f *TableFix) Statements() []string {
	out := make([]string, 0, len(f.Actions))
	for _, a := range f.Actions {
		out = append(out, a.SQL)
	}
	return out
}

// Plan lists table fixes in declaration order. Tables without drift are
// absent.
type Plan struct {
	Tables []*TableFix
}

// Empty reports whether the plan has nothing to do.
func (p *Plan) Empty() bool {
	return p == nil || len(p.Tables) == 0
}

// Table returns the fix for name, if any.
func (p *Plan) Table(name string) (*TableFix, bool) {
	if p == nil {
		return nil, false
	}
	for _, f := range p.Tables {
		if f.Table == name {
			return f, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the plan as an object keyed by table name, keeping
// plan order.
func (p *Plan) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, f := range p.Tables {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Table)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(f.Statements())
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
