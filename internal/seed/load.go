package seed

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Count reports how many records of one kind were submitted.
type Count struct {
	Label string
	Rows  int
}

const (
	insertProject    = "INSERT IGNORE INTO projects (project_id, project_name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertSimType    = "INSERT IGNORE INTO sim_types (sim_type_id, sim_type_name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertModelLevel = "INSERT IGNORE INTO model_levels (model_level_id, model_level_name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertFoldType   = "INSERT IGNORE INTO fold_types (fold_type_id, fold_type_name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertParamDef   = "INSERT IGNORE INTO param_defs (opt_param_id, param_name, param_unit, param_desc, param_default_min, param_default_max, param_default_init, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

	insertDepartment = "INSERT IGNORE INTO departments (department_id, department_name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertUser       = "INSERT IGNORE INTO users (user_id, user_name, user_email, user_account, real_name, department, is_super, access_token, creation_time, last_login_time, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertRole       = "INSERT IGNORE INTO roles (role_id, role_name, permissions, limit_cpu_cores, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	insertPermission = "INSERT IGNORE INTO permissions (permission_id, permission_name, permission_code, permission_desc, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	insertUserRole   = "INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)"

	insertOptParamGroup  = "INSERT IGNORE INTO param_groups (group_id, opt_param_ids, created_at, updated_at) VALUES (?, ?, ?, ?)"
	insertRespParamGroup = "INSERT IGNORE INTO resp_param_groups (group_id, resp_param_ids, created_at, updated_at) VALUES (?, ?, ?, ?)"
)

// ExecSchema runs every statement of a schema file. Leading comment lines
// of each statement are dropped; block comments are skipped.
func ExecSchema(ctx context.Context, ex Execer, text string) (int, error) {
	n := 0
	for _, stmt := range SplitStatements(text) {
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return n, fmt.Errorf("execute schema statement %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}

// SplitStatements splits text on semicolons.
func SplitStatements(text string) []string {
	var out []string
	for _, chunk := range strings.Split(text, ";") {
		stmt := stripLeadingComments(chunk)
		if stmt == "" || strings.HasPrefix(stmt, "/*") {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func stripLeadingComments(chunk string) string {
	lines := strings.Split(chunk, "\n")
	i := 0
	for ; i < len(lines); i++ {
		l := strings.TrimSpace(lines[i])
		if l != "" && !strings.HasPrefix(l, "--") {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[i:], "\n"))
}

// LoadBaseConfig inserts projects, simulation types, model levels, fold
// types and parameter definitions.
func LoadBaseConfig(ctx context.Context, ex Execer, cfg BaseConfig) ([]Count, error) {
	l := loader{ctx: ctx, ex: ex}
	for _, p := range cfg.Projects {
		l.exec(insertProject, p.ProjectID, p.ProjectName, p.CreatedAt, p.UpdatedAt)
	}
	l.count("projects", len(cfg.Projects))
	for _, st := range cfg.SimTypes {
		l.exec(insertSimType, st.SimTypeID, st.SimTypeName, st.CreatedAt, st.UpdatedAt)
	}
	l.count("simulation types", len(cfg.SimTypes))
	for _, ml := range cfg.ModelLevels {
		l.exec(insertModelLevel, ml.ModelLevelID, ml.ModelLevelName, ml.CreatedAt, ml.UpdatedAt)
	}
	l.count("model levels", len(cfg.ModelLevels))
	for _, ft := range cfg.FoldTypes {
		l.exec(insertFoldType, ft.FoldTypeID, ft.FoldTypeName, ft.CreatedAt, ft.UpdatedAt)
	}
	l.count("fold types", len(cfg.FoldTypes))
	for _, pd := range cfg.ParamDefs {
		l.exec(insertParamDef, pd.OptParamID, pd.ParamName, pd.ParamUnit, pd.ParamDesc,
			pd.ParamDefaultMin, pd.ParamDefaultMax, pd.ParamDefaultInit, pd.CreatedAt, pd.UpdatedAt)
	}
	l.count("parameter definitions", len(cfg.ParamDefs))
	return l.done()
}

// LoadUsers inserts departments, users, roles, permissions and user-role
// links.
func LoadUsers(ctx context.Context, ex Execer, u Users) ([]Count, error) {
	l := loader{ctx: ctx, ex: ex}
	for _, d := range u.Departments {
		l.exec(insertDepartment, d.DepartmentID, d.DepartmentName, d.CreatedAt, d.UpdatedAt)
	}
	l.count("departments", len(u.Departments))
	for _, usr := range u.Users {
		l.exec(insertUser, usr.UserID, usr.UserName, usr.UserEmail, usr.UserAccount, usr.RealName,
			usr.Department, usr.IsSuper, usr.AccessToken, usr.CreationTime, usr.LastLoginTime,
			usr.CreatedAt, usr.UpdatedAt)
	}
	l.count("users", len(u.Users))
	for _, r := range u.Roles {
		perms, err := permissionsValue(r.Permissions)
		if err != nil {
			return nil, fmt.Errorf("role %d: %w", r.RoleID, err)
		}
		l.exec(insertRole, r.RoleID, r.RoleName, perms, r.LimitCPUCores, r.CreatedAt, r.UpdatedAt)
	}
	l.count("roles", len(u.Roles))
	for _, p := range u.Permissions {
		l.exec(insertPermission, p.PermissionID, p.PermissionName, p.PermissionCode, p.PermissionDesc, p.CreatedAt, p.UpdatedAt)
	}
	l.count("permissions", len(u.Permissions))
	for _, ur := range u.UserRoles {
		l.exec(insertUserRole, ur[0], ur[1])
	}
	l.count("user role links", len(u.UserRoles))
	return l.done()
}

// LoadParamGroups inserts optimisation and response parameter groups.
// Id lists are stored as JSON arrays.
func LoadParamGroups(ctx context.Context, ex Execer, g ParamGroups) ([]Count, error) {
	l := loader{ctx: ctx, ex: ex}
	for _, grp := range g.OptParamGroups {
		l.exec(insertOptParamGroup, grp.GroupID, idList(grp.OptParamIDs), grp.CreatedAt, grp.UpdatedAt)
	}
	l.count("optimisation parameter groups", len(g.OptParamGroups))
	for _, grp := range g.RespParamGroups {
		l.exec(insertRespParamGroup, grp.GroupID, idList(grp.RespParamIDs), grp.CreatedAt, grp.UpdatedAt)
	}
	l.count("response parameter groups", len(g.RespParamGroups))
	return l.done()
}

// loader stops issuing statements after the first error.
type loader struct {
	ctx    context.Context
	ex     Execer
	counts []Count
	err    error
}

func (l *loader) exec(query string, args ...any) {
	if l.err != nil {
		return
	}
	if _, err := l.ex.ExecContext(l.ctx, query, args...); err != nil {
		table := strings.Fields(query)[3]
		l.err = fmt.Errorf("insert into %s: %w", table, err)
	}
}

func (l *loader) count(label string, n int) {
	if n > 0 {
		l.counts = append(l.counts, Count{Label: label, Rows: n})
	}
}

func (l *loader) done() ([]Count, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.counts, nil
}

// A JSON array is stored compacted; a JSON string is stored unquoted.
func permissionsValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, fmt.Errorf("permissions: %w", err)
		}
		return buf.String(), nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, nil
	}
	return string(trimmed), nil
}

func idList(ids []int) string {
	if ids == nil {
		ids = []int{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}
