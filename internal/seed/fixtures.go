// Package seed generates, transforms, and loads the JSON fixtures that
// populate a freshly provisioned database.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixture file names inside an init-data directory.
const (
	BaseConfigFile  = "base_config.json"
	UsersFile       = "users.json"
	ParamGroupsFile = "param_groups.json"
)

// Stamps are the millisecond timestamps carried by every record.
type Stamps struct {
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ============================================================================
// base_config.json
// ============================================================================

type Project struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Stamps
}

type SimType struct {
	SimTypeID   int    `json:"sim_type_id"`
	SimTypeName string `json:"sim_type_name"`
	Stamps
}

type ModelLevel struct {
	ModelLevelID   int    `json:"model_level_id"`
	ModelLevelName string `json:"model_level_name"`
	Stamps
}

type FoldType struct {
	FoldTypeID   int    `json:"fold_type_id"`
	FoldTypeName string `json:"fold_type_name"`
	Stamps
}

type ParamDef struct {
	OptParamID       int      `json:"opt_param_id"`
	ParamName        string   `json:"param_name"`
	ParamUnit        *string  `json:"param_unit"`
	ParamDesc        *string  `json:"param_desc"`
	ParamDefaultMin  *float64 `json:"param_default_min"`
	ParamDefaultMax  *float64 `json:"param_default_max"`
	ParamDefaultInit *float64 `json:"param_default_init"`
	Stamps
}

// BaseConfig is the content of base_config.json.
type BaseConfig struct {
	Projects    []Project    `json:"projects,omitempty"`
	SimTypes    []SimType    `json:"sim_types,omitempty"`
	ModelLevels []ModelLevel `json:"model_levels,omitempty"`
	FoldTypes   []FoldType   `json:"fold_types,omitempty"`
	ParamDefs   []ParamDef   `json:"param_defs,omitempty"`
}

// ============================================================================
// users.json
// ============================================================================

type Department struct {
	DepartmentID   int    `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Stamps
}

type User struct {
	UserID        int64   `json:"user_id"`
	UserName      string  `json:"user_name"`
	UserEmail     *string `json:"user_email"`
	UserAccount   *string `json:"user_account"`
	RealName      *string `json:"real_name"`
	Department    *int    `json:"department"`
	IsSuper       int     `json:"is_super"`
	AccessToken   *string `json:"access_token"`
	CreationTime  *string `json:"creation_time"`
	LastLoginTime *string `json:"last_login_time"`
	Stamps
}

// Role permissions are either a JSON array of permission ids or a plain
// string such as "all".
type Role struct {
	RoleID        int             `json:"role_id"`
	RoleName      string          `json:"role_name"`
	Permissions   json.RawMessage `json:"permissions"`
	LimitCPUCores int             `json:"limit_cpu_cores"`
	Stamps
}

type Permission struct {
	PermissionID   int     `json:"permission_id"`
	PermissionName string  `json:"permission_name"`
	PermissionCode *string `json:"permission_code"`
	PermissionDesc *string `json:"permission_desc"`
	Stamps
}

// UserRole links a user id to a role id; it encodes as a two element array.
type UserRole [2]int64

// Users is the content of users.json.
type Users struct {
	Users       []User       `json:"users,omitempty"`
	Departments []Department `json:"departments,omitempty"`
	Roles       []Role       `json:"roles,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
	UserRoles   []UserRole   `json:"user_roles,omitempty"`
}

// ============================================================================
// param_groups.json
// ============================================================================

type OptParamGroup struct {
	GroupID     int   `json:"group_id"`
	OptParamIDs []int `json:"opt_param_ids"`
	Stamps
}

type RespParamGroup struct {
	GroupID      int   `json:"group_id"`
	RespParamIDs []int `json:"resp_param_ids"`
	Stamps
}

// ParamGroups is the content of param_groups.json.
type ParamGroups struct {
	OptParamGroups  []OptParamGroup  `json:"opt_param_groups,omitempty"`
	RespParamGroups []RespParamGroup `json:"resp_param_groups,omitempty"`
}

// Fixtures bundles the three init-data documents.
type Fixtures struct {
	Base        BaseConfig
	Users       Users
	ParamGroups ParamGroups
}

// WriteFixtures writes the three fixture files into dir, creating it when
// needed, and returns the written paths.
func WriteFixtures(dir string, f Fixtures) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	docs := []struct {
		name string
		v    any
	}{
		{BaseConfigFile, f.Base},
		{UsersFile, f.Users},
		{ParamGroupsFile, f.ParamGroups},
	}
	var paths []string
	for _, doc := range docs {
		path := filepath.Join(dir, doc.name)
		if err := writeJSON(path, doc.v); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadFixtures loads the three fixture files from dir.
func ReadFixtures(dir string) (Fixtures, error) {
	var f Fixtures
	if err := readJSON(filepath.Join(dir, BaseConfigFile), &f.Base); err != nil {
		return Fixtures{}, err
	}
	if err := readJSON(filepath.Join(dir, UsersFile), &f.Users); err != nil {
		return Fixtures{}, err
	}
	if err := readJSON(filepath.Join(dir, ParamGroupsFile), &f.ParamGroups); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
