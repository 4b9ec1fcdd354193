package docs

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `# Fleet Overview

Intro text.

## Context

Some context with a [[decision-log]] link.

` + "```" + `
# not a heading
` + "```" + `

## Usage

### Details
More, with [[Fleet_Agent]] mention.
`

func TestParseSections(t *testing.T) {
	doc := Parse("sample.md", sample)

	if doc.Title != "Fleet Overview" {
		t.Errorf("expected title 'Fleet Overview', got %q", doc.Title)
	}

	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}

	if doc.Sections[1].Heading != "Context" || doc.Sections[1].Level != 2 {
		t.Errorf("unexpected second section: %+v", doc.Sections[1])
	}

	if !doc.HasSection("usage") {
		t.Error("HasSection should be case-insensitive")
	}
	if doc.HasSection("not a heading") {
		t.Error("headings inside code fences must be ignored")
	}
}

func TestParseLinks(t *testing.T) {
	doc := Parse("sample.md", sample)

	if len(doc.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(doc.Links))
	}
	if doc.Links[0].Target != "decision-log" {
		t.Errorf("unexpected link target: %q", doc.Links[0].Target)
	}
	if doc.Links[1].Target != "Fleet_Agent" {
		t.Errorf("unexpected link target: %q", doc.Links[1].Target)
	}
}

func TestMissingSections(t *testing.T) {
	doc := Parse("readme.md", "# Title\n\n## Overview\ntext\n")

	missing := doc.MissingSections([]string{"Overview", "Installation", "Usage"})
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing, got %v", missing)
	}
	if missing[0] != "Installation" || missing[1] != "Usage" {
		t.Errorf("unexpected missing sections: %v", missing)
	}
}

func TestReadFileAsUTF8(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.md")
	os.WriteFile(plain, []byte("# Hi\n"), 0644)

	content, enc, err := ReadFileAsUTF8(plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "utf-8" || content != "# Hi\n" {
		t.Errorf("got (%q, %q)", content, enc)
	}

	bom := filepath.Join(dir, "bom.md")
	os.WriteFile(bom, append([]byte{0xEF, 0xBB, 0xBF}, []byte("# Hi\n")...), 0644)

	content, _, err = ReadFileAsUTF8(bom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "# Hi\n" {
		t.Errorf("BOM not stripped: %q", content)
	}

	latin := filepath.Join(dir, "latin.md")
	os.WriteFile(latin, []byte{'c', 'a', 'f', 0xE9}, 0644)

	content, enc, err = ReadFileAsUTF8(latin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "windows-1252" || content != "café" {
		t.Errorf("got (%q, %q)", content, enc)
	}

	bin := filepath.Join(dir, "bin.dat")
	os.WriteFile(bin, []byte{0x00, 0x01, 0x02}, 0644)

	if _, _, err := ReadFileAsUTF8(bin); err == nil {
		t.Error("expected error for binary file")
	}
}

func TestLoaderCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	os.WriteFile(path, []byte("# One\n"), 0644)

	loader := NewLoader()

	first, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	second, err := loader.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first != second {
		t.Error("unchanged content should return the cached document")
	}

	os.WriteFile(path, []byte("# Two\n"), 0644)

	third, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load after change: %v", err)
	}
	if third == first {
		t.Error("changed content must be re-parsed")
	}
	if third.Title != "Two" {
		t.Errorf("expected title 'Two', got %q", third.Title)
	}
}
