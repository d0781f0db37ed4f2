package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Source files read from a data-config directory.
const (
	RelativeConfigFile      = "relative_config.json"
	SubmitIssueFile         = "submit_issue.json"
	SubmitIssueTemplateFile = "submit_issue_template.json"
)

type keyMapping struct {
	from, to string
	// copy as is, without timestamps
	verbatim bool
}

var (
	baseConfigKeys = []keyMapping{
		{from: "projject_list", to: "projects"},
		{from: "project_list", to: "projects"},
		{from: "sim_type_list", to: "sim_types"},
		{from: "model_level_list", to: "model_levels"},
		{from: "fold_type_list", to: "fold_types"},
		{from: "param_map", to: "param_defs"},
	}
	usersKeys = []keyMapping{
		{from: "user_list", to: "users"},
		{from: "department_list", to: "departments"},
		{from: "role_list", to: "roles"},
		{from: "permission_list", to: "permissions"},
		{from: "user_roles", to: "user_roles", verbatim: true},
	}
	paramGroupsKeys = []keyMapping{
		{from: "opt_param_groups", to: "opt_param_groups"},
		{from: "resp_param_groups", to: "resp_param_groups"},
	}
)

// Transform converts hand-maintained data-config documents in srcDir
// into init-data fixtures in dstDir. Records keep their original fields;
// created_at and updated_at are added from now when missing.
func Transform(srcDir, dstDir string, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dstDir, err)
	}
	ts := now.UnixMilli()

	var written []string
	for _, doc := range []struct {
		name string
		keys []keyMapping
	}{
		{BaseConfigFile, baseConfigKeys},
		{UsersFile, usersKeys},
		{ParamGroupsFile, paramGroupsKeys},
	} {
		src, err := readCommentedObject(filepath.Join(srcDir, doc.name))
		if err != nil {
			return written, err
		}
		path := filepath.Join(dstDir, doc.name)
		if err := writeJSON(path, renameLists(src, doc.keys, ts)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	relative, err := readCommented(filepath.Join(srcDir, RelativeConfigFile))
	if err != nil {
		return written, err
	}
	path := filepath.Join(dstDir, RelativeConfigFile)
	if err := writeJSON(path, relative); err != nil {
		return written, err
	}
	written = append(written, path)

	issue, err := readCommentedObject(filepath.Join(srcDir, SubmitIssueFile))
	if err != nil {
		return written, err
	}
	addStamps(issue, ts)
	path = filepath.Join(dstDir, SubmitIssueTemplateFile)
	if err := writeJSON(path, issue); err != nil {
		return written, err
	}
	return append(written, path), nil
}

func renameLists(src map[string]any, keys []keyMapping, ts int64) map[string]any {
	out := make(map[string]any)
	for _, k := range keys {
		v, ok := src[k.from]
		if !ok {
			continue
		}
		if _, done := out[k.to]; done {
			continue
		}
		if !k.verbatim {
			stampList(v, ts)
		}
		out[k.to] = v
	}
	return out
}

func stampList(v any, ts int64) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			addStamps(obj, ts)
		}
	}
}

func addStamps(obj map[string]any, ts int64) {
	if _, ok := obj["created_at"]; !ok {
		obj["created_at"] = ts
	}
	if _, ok := obj["updated_at"]; !ok {
		obj["updated_at"] = ts
	}
}

func readCommentedObject(path string) (map[string]any, error) {
	v, err := readCommented(path)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON object", filepath.Base(path))
	}
	return obj, nil
}

// readCommented decodes a JSON document that may contain // line comments.
// Numbers are kept as json.Number so they round-trip unchanged.
func readCommented(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(StripLineComments(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// StripLineComments removes // comments that start outside string literals.
func StripLineComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '/' && i+1 < len(data) && data[i+1] == '/' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
			continue
		}
		if c == '"' {
			inString = true
		}
		out = append(out, c)
	}
	return out
}
