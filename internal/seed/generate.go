package seed

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	hourMillis = int64(time.Hour / time.Millisecond)
	dayMillis  = 24 * hourMillis
)

// Generate builds the development fixture set. Every timestamp derives
// from now, so equal inputs produce identical fixtures.
func Generate(now time.Time) Fixtures {
	ts := now.UnixMilli()
	return Fixtures{
		Base:        generateBaseConfig(ts),
		Users:       generateUsers(ts),
		ParamGroups: generateParamGroups(ts),
	}
}

func stamps(ts int64) Stamps { return Stamps{CreatedAt: ts, UpdatedAt: ts} }

func generateBaseConfig(ts int64) BaseConfig {
	projectNames := []string{
		"Foldable Phone A", "Foldable Phone B", "Foldable Tablet",
		"Smart Watch", "Laptop", "Game Console",
		"VR Headset", "Smart Speaker", "In-car Display", "Rugged Tablet",
	}
	var cfg BaseConfig
	for i, name := range projectNames {
		n := int64(i + 1)
		cfg.Projects = append(cfg.Projects, Project{
			ProjectID:   fmt.Sprint(1750 + n),
			ProjectName: name,
			// one project per day going back
			Stamps: Stamps{CreatedAt: ts - n*dayMillis, UpdatedAt: ts},
		})
	}

	for i, name := range []string{"Drop", "Ball drop", "Vibration", "Shock", "Thermal"} {
		cfg.SimTypes = append(cfg.SimTypes, SimType{SimTypeID: i + 1, SimTypeName: name, Stamps: stamps(ts)})
	}
	for i, name := range []string{"Assembly", "Single part", "Component"} {
		cfg.ModelLevels = append(cfg.ModelLevels, ModelLevel{ModelLevelID: i + 1, ModelLevelName: name, Stamps: stamps(ts)})
	}
	for i, name := range []string{"Unfolded", "Folded", "Half folded"} {
		cfg.FoldTypes = append(cfg.FoldTypes, FoldType{FoldTypeID: i, FoldTypeName: name, Stamps: stamps(ts)})
	}

	params := []struct {
		name, unit, desc string
		min, max, init   float64
	}{
		// attitude
		{"x_deg", "°", "X axis rotation", 0, 90, 0},
		{"y_deg", "°", "Y axis rotation", 0, 360, 0},
		{"z_deg", "°", "Z axis rotation", 0, 90, 0},
		// drop
		{"drop_height", "m", "Drop height", 0.5, 2.0, 1.0},
		{"gravity", "m/s²", "Gravitational acceleration", 9.8, 9.8, 9.8},
		{"init_velocity", "m/s", "Initial velocity", 0, 10, 0},
		// ball drop
		{"ball_mass", "kg", "Ball mass", 0.1, 1.0, 0.5},
		{"ball_radius", "mm", "Ball radius", 10, 50, 25},
		{"impact_x", "mm", "Impact point X", -100, 100, 0},
		{"impact_y", "mm", "Impact point Y", -100, 100, 0},
		// vibration
		{"frequency", "Hz", "Vibration frequency", 10, 2000, 100},
		{"amplitude", "mm", "Amplitude", 0.1, 10, 1.0},
		{"duration", "s", "Duration", 1, 60, 10},
		// material
		{"youngs_modulus", "GPa", "Young's modulus", 50, 300, 200},
		{"poisson_ratio", "", "Poisson's ratio", 0.2, 0.4, 0.3},
		{"density", "kg/m³", "Density", 1000, 8000, 7850},
		// thermal
		{"ambient_temp", "°C", "Ambient temperature", -40, 85, 25},
		{"heat_flux", "W/m²", "Heat flux", 0, 10000, 1000},
		// mesh
		{"mesh_size", "mm", "Mesh size", 0.5, 5.0, 2.0},
		{"time_step", "ms", "Time step", 0.01, 1.0, 0.1},
	}
	for i, p := range params {
		cfg.ParamDefs = append(cfg.ParamDefs, ParamDef{
			OptParamID:       i + 1,
			ParamName:        p.name,
			ParamUnit:        ptr(p.unit),
			ParamDesc:        ptr(p.desc),
			ParamDefaultMin:  ptr(p.min),
			ParamDefaultMax:  ptr(p.max),
			ParamDefaultInit: ptr(p.init),
			Stamps:           stamps(ts),
		})
	}
	return cfg
}

func generateUsers(ts int64) Users {
	var u Users
	for i, name := range []string{"R&D", "QA", "Product", "Design"} {
		u.Departments = append(u.Departments, Department{DepartmentID: i + 1, DepartmentName: name, Stamps: stamps(ts)})
	}

	people := []struct {
		id                    int64
		name, email, realName string
		dept, super           int
		role                  int64
	}{
		{10001, "admin", "admin@example.com", "System Administrator", 1, 1, 1},
		{10002, "zhangsan", "zhangsan@example.com", "Zhang San", 1, 0, 2},
		{10003, "lisi", "lisi@example.com", "Li Si", 1, 0, 3},
		{10004, "wangwu", "wangwu@example.com", "Wang Wu", 2, 0, 4},
		{10005, "zhaoliu", "zhaoliu@example.com", "Zhao Liu", 2, 0, 4},
		{10006, "sunqi", "sunqi@example.com", "Sun Qi", 3, 0, 5},
		{10007, "zhouba", "zhouba@example.com", "Zhou Ba", 3, 0, 5},
		{10008, "wujiu", "wujiu@example.com", "Wu Jiu", 4, 0, 3},
		{10009, "zhengshi", "zhengshi@example.com", "Zheng Shi", 4, 0, 3},
		{10010, "test_user1", "test1@example.com", "Test User 1", 1, 0, 3},
		{10011, "test_user2", "test2@example.com", "Test User 2", 1, 0, 3},
		{10012, "test_user3", "test3@example.com", "Test User 3", 2, 0, 4},
		{10013, "test_user4", "test4@example.com", "Test User 4", 2, 0, 4},
		{10014, "test_user5", "test5@example.com", "Test User 5", 3, 0, 5},
		{10015, "dev_user1", "dev1@example.com", "Developer 1", 1, 0, 3},
		{10016, "dev_user2", "dev2@example.com", "Developer 2", 1, 0, 3},
		{10017, "qa_user1", "qa1@example.com", "QA 1", 2, 0, 4},
		{10018, "qa_user2", "qa2@example.com", "QA 2", 2, 0, 4},
		{10019, "pm_user1", "pm1@example.com", "Product Manager 1", 3, 0, 2},
		{10020, "designer1", "design1@example.com", "Designer 1", 4, 0, 3},
	}
	for _, p := range people {
		u.Users = append(u.Users, User{
			UserID:        p.id,
			UserName:      p.name,
			UserEmail:     ptr(p.email),
			UserAccount:   ptr(p.name),
			RealName:      ptr(p.realName),
			Department:    ptr(p.dept),
			IsSuper:       p.super,
			AccessToken:   ptr(fmt.Sprintf("token_%d", p.id)),
			CreationTime:  ptr("2024-01-01 00:00:00"),
			LastLoginTime: ptr("2024-01-24 00:00:00"),
			// one user per hour going back
			Stamps: Stamps{CreatedAt: ts - (p.id-10000)*hourMillis, UpdatedAt: ts},
		})
		u.UserRoles = append(u.UserRoles, UserRole{p.id, p.role})
	}

	roles := []struct {
		name  string
		perms any
		cores int
	}{
		{"Super Administrator", "all", 512},
		{"Project Manager", []int{1, 2, 3, 4, 5, 6, 7, 8}, 256},
		{"Development Engineer", []int{1, 2, 3, 4, 5}, 128},
		{"Test Engineer", []int{1, 3, 4}, 64},
		{"Product Manager", []int{1, 2, 6}, 32},
	}
	for i, r := range roles {
		u.Roles = append(u.Roles, Role{
			RoleID:        i + 1,
			RoleName:      r.name,
			Permissions:   rawJSON(r.perms),
			LimitCPUCores: r.cores,
			Stamps:        stamps(ts),
		})
	}

	perms := []struct{ name, code, desc string }{
		{"View dashboard", "VIEW_DASHBOARD", "View the system dashboard"},
		{"Manage config", "MANAGE_CONFIG", "Manage system configuration"},
		{"View results", "VIEW_RESULTS", "View simulation results"},
		{"Create order", "CREATE_ORDER", "Create simulation orders"},
		{"Edit order", "EDIT_ORDER", "Edit simulation orders"},
		{"Manage users", "MANAGE_USERS", "Manage user permissions"},
		{"System settings", "SYSTEM_SETTINGS", "Change system settings"},
		{"Delete data", "DELETE_DATA", "Delete system data"},
	}
	for i, p := range perms {
		u.Permissions = append(u.Permissions, Permission{
			PermissionID:   i + 1,
			PermissionName: p.name,
			PermissionCode: ptr(p.code),
			PermissionDesc: ptr(p.desc),
			Stamps:         stamps(ts),
		})
	}
	return u
}

func generateParamGroups(ts int64) ParamGroups {
	opt := [][]int{
		{1, 2, 3, 4, 5, 6}, // drop attitude
		{7, 8, 9, 10},      // ball drop
		{11, 12, 13},       // vibration
		{14, 15, 16},       // material
		{17, 18, 19, 20},   // thermal
	}
	resp := [][]int{{1, 2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}}

	var g ParamGroups
	for i, ids := range opt {
		g.OptParamGroups = append(g.OptParamGroups, OptParamGroup{GroupID: i + 1, OptParamIDs: ids, Stamps: stamps(ts)})
	}
	for i, ids := range resp {
		g.RespParamGroups = append(g.RespParamGroups, RespParamGroup{GroupID: i + 1, RespParamIDs: ids, Stamps: stamps(ts)})
	}
	return g
}

func ptr[T any](v T) *T { return &v }

func rawJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
