// Package schema models table structure as declared in a schema file or
// reported by a live database.
package schema

// ============================================================================
// MODELS - Schema representation
// ============================================================================

// Schema is an ordered set of uniquely named tables.
type Schema struct {
	Tables []*Table `json:"tables"`

	index map[string]int
}

// Table is an ordered set of uniquely named columns.
type Table struct {
	Name    string    `json:"name"`
	Columns []*Column `json:"columns"`

	index map[string]int
}

// Column describes a single column. Columns read from a live database
// never carry a comment.
type Column struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{index: make(map[string]int)}
}

// Add appends t unless a table with the same name is already present.
func (s *Schema) Add(t *Table) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[t.Name]; ok {
		return false
	}
	s.index[t.Name] = len(s.Tables)
	s.Tables = append(s.Tables, t)
	return true
}

// Table looks up a table by name.
func (s *Schema) Table(name string) (*Table, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Tables[i], true
}

// Names returns table names in insertion order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// NewTable returns an empty table.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]int)}
}

// Add appends col unless a column with the same name is already present.
func (t *Table) Add(col *Column) bool {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, ok := t.index[col.Name]; ok {
		return false
	}
	t.index[col.Name] = len(t.Columns)
	t.Columns = append(t.Columns, col)
	return true
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}
