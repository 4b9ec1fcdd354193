package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleVocab = `terms:
  - name: Agent
    definition: A configured autonomous worker.
  - name: Fleet_Agent
    definition: An agent managed as part of a fleet.
    broader: [Agent]
  - name: Version_Json
    definition: The workspace version manifest file.
    related: [Fleet_Agent]
  - name: V_Test
    definition: A verification test artifact.
`

func writeVocab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	r, err := Load(writeVocab(t, sampleVocab))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Len() != 4 {
		t.Errorf("expected 4 terms, got %d", r.Len())
	}

	term, ok := r.Lookup("Fleet_Agent")
	if !ok {
		t.Fatal("Fleet_Agent not found")
	}
	if len(term.Broader) != 1 || term.Broader[0] != "Agent" {
		t.Errorf("unexpected broader links: %v", term.Broader)
	}
}

func TestLoadRejectsDanglingLink(t *testing.T) {
	bad := `terms:
  - name: Fleet_Agent
    definition: x
    broader: [Missing_Term]
`
	if _, err := Load(writeVocab(t, bad)); err == nil {
		t.Error("expected error for dangling link")
	}
}

func TestAddRejectsBadCasing(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"fleet_agent", "Fleet_agent", "FLEET_AGENT", "Fleet__Agent", "_Fleet"} {
		if err := r.Add(&Term{Name: name, Definition: "x"}); err == nil {
			t.Errorf("expected rejection of %q", name)
		}
	}

	if err := r.Add(&Term{Name: "Fleet_Agent", Definition: "x"}); err != nil {
		t.Errorf("canonical name rejected: %v", err)
	}
}

func TestResolveFoldsCase(t *testing.T) {
	r, err := Load(writeVocab(t, sampleVocab))
	if err != nil {
		t.Fatal(err)
	}

	term, ok := r.Resolve("fleet_agent")
	if !ok || term.Name != "Fleet_Agent" {
		t.Errorf("Resolve(fleet_agent) = %v, %v", term, ok)
	}

	term, ok = r.Resolve("VERSION_JSON")
	if !ok || term.Name != "Version_Json" {
		t.Errorf("Resolve(VERSION_JSON) = %v, %v", term, ok)
	}

	if _, ok := r.Resolve("unknown_token"); ok {
		t.Error("unknown token should not resolve")
	}
}

func TestScan(t *testing.T) {
	r, err := Load(writeVocab(t, sampleVocab))
	if err != nil {
		t.Fatal(err)
	}

	text := "Every fleet_agent writes Version_Json on start.\nSee VERSION_JSON and v_test for details.\nA plain_identifier is fine."

	hits := r.Scan(text)
	if len(hits) != 3 {
		t.Fatalf("expected 3 miscasings, got %d: %+v", len(hits), hits)
	}

	if hits[0].Token != "fleet_agent" || hits[0].Canonical != "Fleet_Agent" || hits[0].Line != 1 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].Token != "VERSION_JSON" || hits[1].Line != 2 {
		t.Errorf("unexpected second hit: %+v", hits[1])
	}
	if hits[2].Token != "v_test" || hits[2].Canonical != "V_Test" {
		t.Errorf("unexpected third hit: %+v", hits[2])
	}
}
