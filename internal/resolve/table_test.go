package resolve

import (
	"strings"
	"testing"
)

func TestBuiltinTableParses(t *testing.T) {
	table := BuiltinTable()
	if table.Len() == 0 {
		t.Fatal("expected builtin table to carry mappings")
	}

	entry, ok := table.Lookup("pacman", "qemu-base")
	if !ok {
		t.Fatal("expected builtin table to map pacman qemu-base")
	}
	if entry.Key != "qemu" || entry.DisplayName != "QEMU" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestBuiltinTableGroupsAcrossManagers(t *testing.T) {
	table := BuiltinTable()

	pacman, ok1 := table.Lookup("pacman", "firefox")
	snap, ok2 := table.Lookup("snap", "firefox")
	if !ok1 || !ok2 {
		t.Fatal("expected firefox to be mapped for both pacman and snap")
	}
	if pacman.Key != snap.Key {
		t.Errorf("expected the same project key across managers, got %s and %s", pacman.Key, snap.Key)
	}
}

func TestParseTableDefaultsDisplayName(t *testing.T) {
	table, err := ParseTable([]byte(`
projects:
  - key: zlib
    packages:
      - {manager: pacman, name: zlib}
`))
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	entry, ok := table.Lookup("pacman", "zlib")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if entry.DisplayName != "zlib" {
		t.Errorf("expected display name to default to the key, got %q", entry.DisplayName)
	}
}

func TestParseTableRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "empty key",
			yaml: "projects:\n  - display_name: Foo\n    packages:\n      - {manager: pacman, name: foo}\n",
			want: "empty key",
		},
		{
			name: "empty package name",
			yaml: "projects:\n  - key: foo\n    packages:\n      - {manager: pacman, name: \"\"}\n",
			want: "empty manager or name",
		},
		{
			name: "duplicate mapping",
			yaml: "projects:\n  - key: a\n    packages:\n      - {manager: pacman, name: x}\n  - key: b\n    packages:\n      - {manager: pacman, name: x}\n",
			want: "mapped to both",
		},
		{
			name: "malformed yaml",
			yaml: "projects: [",
			want: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLookupMiss(t *testing.T) {
	if _, ok := EmptyTable().Lookup("pacman", "anything"); ok {
		t.Error("expected lookup miss on empty table")
	}
}

func TestBuiltinTableMapsDnfPackages(t *testing.T) {
	table := BuiltinTable()

	entry, ok := table.Lookup("dnf", "vim-enhanced")
	if !ok {
		t.Fatal("expected dnf vim-enhanced to be mapped")
	}
	if entry.Key != "vim" {
		t.Errorf("expected key vim, got %s", entry.Key)
	}

	if _, ok := table.Lookup("dnf", "git-core"); !ok {
		t.Error("expected dnf git-core to be mapped")
	}
}
