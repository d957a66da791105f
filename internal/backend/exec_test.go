package backend

import "testing"

func TestParseFlatpakList(t *testing.T) {
	output := "org.mozilla.firefox\t128.0\tFast, Private & Safe Web Browser\n" +
		"org.gimp.GIMP\t2.10.38\tCreate images and edit photographs\n" +
		"org.sparse.NoVersion\t\t\n"

	records := parseFlatpakList(output)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Manager != ManagerFlatpak {
		t.Errorf("expected manager flatpak, got %s", records[0].Manager)
	}
	if records[0].Name != "org.mozilla.firefox" || records[0].Version != "128.0" {
		t.Errorf("unexpected record %+v", records[0])
	}
	if records[1].Description != "Create images and edit photographs" {
		t.Errorf("unexpected description %q", records[1].Description)
	}
	if records[2].Version != "" {
		t.Errorf("expected empty version, got %q", records[2].Version)
	}
}

func TestParseFlatpakListEmpty(t *testing.T) {
	if records := parseFlatpakList(""); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if records := parseFlatpakList("\n\n"); len(records) != 0 {
		t.Errorf("expected no records from blank lines, got %d", len(records))
	}
}

func TestParseSnapList(t *testing.T) {
	output := `Name               Version          Rev    Tracking       Publisher   Notes
bare               1.0              5      latest/stable  canonical✓  base
core22             20240408         1380   latest/stable  canonical✓  base
firefox            128.0-2          4539   latest/stable  mozilla✓    -
gtk-common-themes  0.1-81-g442e511  1535   latest/stable  canonical✓  -
snapd              2.63             21759  latest/stable  canonical✓  snapd
spotify            1.2.37           77     latest/stable  spotify✓    -
`

	records := parseSnapList(output)
	if len(records) != 2 {
		t.Fatalf("expected 2 records after filtering plumbing, got %d: %v", len(records), records)
	}
	if records[0].Name != "firefox" || records[0].Version != "128.0-2" {
		t.Errorf("unexpected record %+v", records[0])
	}
	if records[1].Name != "spotify" {
		t.Errorf("unexpected record %+v", records[1])
	}
}

func TestParseSnapListHeaderOnly(t *testing.T) {
	output := "Name  Version  Rev  Tracking  Publisher  Notes\n"
	if records := parseSnapList(output); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestIsSnapPlumbing(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"bare", true},
		{"core", true},
		{"core18", true},
		{"core22", true},
		{"corepack-thing", false},
		{"snapd", true},
		{"firefox", false},
		{"gtk-common-themes", true},
	}

	for _, tt := range tests {
		if got := isSnapPlumbing(tt.name); got != tt.want {
			t.Errorf("isSnapPlumbing(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseRpmList(t *testing.T) {
	output := "bash\t5.2.26-3.fc40\tThe GNU Bourne Again shell\thttps://www.gnu.org/software/bash\tGPL-3.0-or-later\n" +
		"kernel\t6.8.5-301.fc40\tThe Linux kernel\thttps://www.kernel.org\tGPL-2.0-only\n" +
		"vim-enhanced\t9.1.158-1.fc40\tA version of the VIM editor\thttps://www.vim.org\tVim AND MIT\n"

	records := parseRpmList(output)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Manager != ManagerDnf {
		t.Errorf("expected manager dnf, got %s", first.Manager)
	}
	if first.Name != "bash" || first.Version != "5.2.26-3.fc40" {
		t.Errorf("unexpected record %+v", first)
	}
	if first.Description != "The GNU Bourne Again shell" {
		t.Errorf("unexpected description %q", first.Description)
	}
	if first.Homepage != "https://www.gnu.org/software/bash" {
		t.Errorf("unexpected homepage %q", first.Homepage)
	}
	if len(first.Licenses) != 1 || first.Licenses[0] != "GPL-3.0-or-later" {
		t.Errorf("unexpected licenses %v", first.Licenses)
	}
}

func TestParseRpmListNoneFields(t *testing.T) {
	// RPM prints "(none)" for unset tags; those must come through empty.
	output := "gpg-pubkey\t1234abcd-5678ef01\tgpg(Fedora 40)\t(none)\t(none)\n"

	records := parseRpmList(output)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Homepage != "" {
		t.Errorf("expected empty homepage, got %q", records[0].Homepage)
	}
	if len(records[0].Licenses) != 0 {
		t.Errorf("expected no licenses, got %v", records[0].Licenses)
	}
}

func TestParseRpmListSparseLines(t *testing.T) {
	output := "\nsome-pkg\t1.0\n\n\t1.0\tno name\thttps://example.com\tMIT\n"

	records := parseRpmList(output)
	if len(records) != 1 {
		t.Fatalf("expected blank lines and empty names skipped, got %d records", len(records))
	}
	if records[0].Name != "some-pkg" || records[0].Version != "1.0" {
		t.Errorf("unexpected record %+v", records[0])
	}
}

func TestParseRpmListEmpty(t *testing.T) {
	if records := parseRpmList(""); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
