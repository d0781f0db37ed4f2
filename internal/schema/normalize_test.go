package schema

import "testing"

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INT(11)", "INT"},
		{"int", "INT"},
		{"int(10) unsigned", "INT UNSIGNED"},
		{"TINYINT(1)", "TINYINT"},
		{"tinyint(4)", "TINYINT(4)"},
		{"VARCHAR(255)", "VARCHAR(255)"},
		{"varchar(100)", "VARCHAR(100)"},
		{"BIGINT", "BIGINT"},
		{"DECIMAL(10,2)", "DECIMAL(10,2)"},
		{" text ", "TEXT"},
	}
	for _, tt := range tests {
		if got := NormalizeType(tt.in); got != tt.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTypeIdempotent(t *testing.T) {
	inputs := []string{"INT(11)", "INT", "TINYINT(1)", "VARCHAR(255)", "int(10) unsigned", "json", "DATETIME(3)", ""}
	for _, in := range inputs {
		once := NormalizeType(in)
		if twice := NormalizeType(once); twice != once {
			t.Errorf("NormalizeType not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeTypeEquivalences(t *testing.T) {
	if NormalizeType("INT(11)") != NormalizeType("INT") {
		t.Error("INT(11) and INT must compare equal")
	}
	if NormalizeType("VARCHAR(255)") == NormalizeType("VARCHAR(100)") {
		t.Error("VARCHAR lengths must stay significant")
	}
}
