package vocabulary

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aget-framework/aget-sub002/internal/vocab"
)

func testRegistry(t *testing.T) *vocab.Registry {
	t.Helper()
	r := vocab.NewRegistry()
	for _, term := range []vocab.Term{
		{Name: "Fleet_Agent", Definition: "An agent managed as part of a fleet"},
		{Name: "Version_Json", Definition: "The workspace version manifest"},
	} {
		term := term
		if err := r.Add(&term); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestLookupTool(t *testing.T) {
	tool := NewLookupTool(testRegistry(t))

	input, _ := json.Marshal(LookupRequest{Term: "fleet_agent"})
	result, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	resp := result.(*LookupResponse)
	if !resp.Found || resp.Term == nil || resp.Term.Name != "Fleet_Agent" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLookupToolListsAll(t *testing.T) {
	tool := NewLookupTool(testRegistry(t))

	result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	resp := result.(*LookupResponse)
	if len(resp.Terms) != 2 {
		t.Errorf("expected full listing, got %+v", resp)
	}
}

func TestLookupToolUnknownTerm(t *testing.T) {
	tool := NewLookupTool(testRegistry(t))

	input, _ := json.Marshal(LookupRequest{Term: "No_Such_Term"})
	result, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.(*LookupResponse).Found {
		t.Error("expected found=false")
	}
}

func TestCheckTool(t *testing.T) {
	tool := NewCheckTool(testRegistry(t), nil)

	input, _ := json.Marshal(CheckRequest{Text: "every fleet_agent reads Version_Json on boot"})
	result, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	resp := result.(*CheckResponse)
	if resp.Clean {
		t.Fatal("expected miscasing to be flagged")
	}
	if len(resp.Miscasings) != 1 || resp.Miscasings[0].Canonical != "Fleet_Agent" {
		t.Errorf("unexpected miscasings: %+v", resp.Miscasings)
	}
}

func TestCheckToolWorkspaceMode(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("README.md", "# P\n\nthe fleet_agent boots first\n")
	write("memory/notes.md", "# N\n\nVersion_Json is fine here\n")
	write("vendor/doc.md", "# skip\n\nanother fleet_agent\n")

	tool := NewCheckTool(testRegistry(t), []string{"**/vendor/**"})

	input, _ := json.Marshal(CheckRequest{Root: root})
	result, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	resp := result.(*CheckResponse)
	if resp.Clean {
		t.Fatal("expected miscasing to be flagged")
	}
	if len(resp.Files) != 1 || resp.Files[0].Path != "README.md" {
		t.Errorf("unexpected per-file results: %+v", resp.Files)
	}
	if len(resp.Files[0].Miscasings) != 1 || resp.Files[0].Miscasings[0].Canonical != "Fleet_Agent" {
		t.Errorf("unexpected miscasings: %+v", resp.Files[0].Miscasings)
	}
}

func TestCheckToolRejectsAmbiguousInput(t *testing.T) {
	tool := NewCheckTool(testRegistry(t), nil)

	if _, err := tool.Execute(context.Background(), json.RawMessage(`{}`)); err == nil {
		t.Error("expected error when neither root nor text is set")
	}
	if _, err := tool.Execute(context.Background(), json.RawMessage(`{"root":"/tmp","text":"x"}`)); err == nil {
		t.Error("expected error when both root and text are set")
	}
}

func TestToolsRequireRegistry(t *testing.T) {
	if _, err := NewLookupTool(nil).Execute(context.Background(), json.RawMessage(`{}`)); err == nil {
		t.Error("lookup without registry must fail")
	}
	if _, err := NewCheckTool(nil, nil).Execute(context.Background(), json.RawMessage(`{"text":"x"}`)); err == nil {
		t.Error("check without registry must fail")
	}
}
