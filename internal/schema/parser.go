package schema

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrDeclarationNotFound is returned when the declaration file is missing.
var ErrDeclarationNotFound = errors.New("schema declaration not found")

var (
	tableBlockPattern = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+)\s*\((.*?)\)\s*ENGINE`)
	columnPattern     = regexp.MustCompile(`^(\w+)\s+([A-Z]+(?:\([^)]+\))?)`)
	defaultPattern    = regexp.MustCompile(`(?i)DEFAULT\s+([^\s,]+)`)
	commentPattern    = regexp.MustCompile(`(?i)COMMENT\s+'([^']+)'`)
)

// Lines starting with these never describe a column.
var skippedPrefixes = []string{"INDEX", "UNIQUE", "PRIMARY", "KEY", "CONSTRAINT", "FOREIGN", "--"}

// Declaration is a parsed declaration file together with its source text.
type Declaration struct {
	Path   string
	Text   string
	Schema *Schema
}

// LoadDeclaration reads and parses the declaration file at path.
func LoadDeclaration(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDeclarationNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read schema declaration: %w", err)
	}
	decl := NewDeclaration(string(data))
	decl.Path = path
	return decl, nil
}

// NewDeclaration parses text into a Declaration.
func NewDeclaration(text string) *Declaration {
	return &Declaration{Text: text, Schema: Parse(text)}
}

// CreateStatement extracts the verbatim CREATE TABLE statement for table,
// including its ENGINE clause and terminating semicolon.
func (d *Declaration) CreateStatement(table string) (string, bool) {
	pattern, err := regexp.Compile(`(?s)CREATE TABLE IF NOT EXISTS ` + regexp.QuoteMeta(table) + `\s*\(.*?\)\s*ENGINE[^;]+;`)
	if err != nil {
		return "", false
	}
	stmt := pattern.FindString(d.Text)
	return stmt, stmt != ""
}

// Parse extracts every CREATE TABLE IF NOT EXISTS block from text. Lines
// inside a block that do not look like "<name> <TYPE>" are ignored.
func Parse(text string) *Schema {
	s := NewSchema()
	for _, m := range tableBlockPattern.FindAllStringSubmatch(text, -1) {
		table := NewTable(m[1])
		for _, line := range strings.Split(m[2], "\n") {
			if col, ok := parseColumn(line); ok {
				table.Add(col)
			}
		}
		s.Add(table)
	}
	return s
}

func parseColumn(line string) (*Column, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(line, prefix) {
			return nil, false
		}
	}

	m := columnPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	col := &Column{
		Name:     m[1],
		Type:     m[2],
		Nullable: !strings.Contains(strings.ToUpper(line), "NOT NULL"),
	}
	if dm := defaultPattern.FindStringSubmatch(line); dm != nil {
		col.Default = &dm[1]
	}
	if cm := commentPattern.FindStringSubmatch(line); cm != nil {
		col.Comment = &cm[1]
	}
	return col, true
}
