package registry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const loanYAML = `maps:
  - name: LoanProcessTree
    description: Loan origination flow
    components:
      ulship: [AEAPS, ULDEC, DEPCT]
      ULDEC: [FICO]
`

const accountYAML = `maps:
  - name: AccountOpeningTree
    components:
      ACCTOPEN: [KYC, ULDEC]
`

func TestParse(t *testing.T) {
	maps, err := Parse([]byte(loanYAML), "loan.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(maps) != 1 {
		t.Fatalf("expected 1 map, got %d", len(maps))
	}
	m := maps[0]
	if m.Name != "LoanProcessTree" || m.Source != "loan.yml" {
		t.Errorf("map = %q from %q", m.Name, m.Source)
	}
	if got := m.Components.Keys(); !reflect.DeepEqual(got, ids("ULSHIP", "ULDEC")) {
		t.Errorf("Keys = %v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	maps, err := Parse(nil, "empty.yml")
	if err != nil || maps != nil {
		t.Errorf("Parse(empty) = %v, %v", maps, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "maps:\n  - components:\n      A: [B]\n",
			want:    "Maps[0].Name is required",
		},
		{
			name:    "missing components",
			content: "maps:\n  - name: X\n",
			want:    "Maps[0].Components is required",
		},
		{
			name:    "unknown field",
			content: "maps:\n  - name: X\n    colour: red\n    components:\n      A: [B]\n",
			want:    "bad.yml",
		},
		{
			name:    "duplicate entry",
			content: "maps:\n  - name: X\n    components:\n      A: [B]\n      a: [C]\n",
			want:    "duplicate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "bad.yml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "loan.yml"), loanYAML)
	writeFile(t, filepath.Join(dir, "b", "nested", "account.yaml"), accountYAML)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	reg, err := LoadFiles([]string{
		filepath.Join(dir, "**", "*.yml"),
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a", "loan.yml"), // matched twice
	})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
	if got := reg.Find("uldec"); Classify(got) != Ambiguous {
		t.Errorf("Find(uldec) = %v, want two matches", got)
	}
}

func TestLoadFilesRejectsInvalidMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "loan.yml"), loanYAML)
	bad := filepath.Join(dir, "cycle.yml")
	writeFile(t, bad, "maps:\n  - name: Loop\n    components:\n      A: [B]\n      B: [A]\n")

	_, err := LoadFiles([]string{filepath.Join(dir, "*.yml")})
	if !errors.Is(err, hierarchy.ErrCycleDetected) {
		t.Fatalf("LoadFiles error = %v, want cycle", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("error should name %s: %v", bad, err)
	}
}

func TestLoadFilesDuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.yml"), loanYAML)
	writeFile(t, filepath.Join(dir, "two.yml"), loanYAML)

	if _, err := LoadFiles([]string{filepath.Join(dir, "*.yml")}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("LoadFiles error = %v, want ErrDuplicateName", err)
	}
}

func TestResolveFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"c.yml", "a.yml", "b.yml"} {
		writeFile(t, filepath.Join(dir, n), "")
	}
	files, err := ResolveFiles([]string{filepath.Join(dir, "*.yml")})
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yml"), filepath.Join(dir, "c.yml")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}
