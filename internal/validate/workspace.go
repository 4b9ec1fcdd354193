package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aget-framework/aget-sub002/internal/docs"
)

// Workspace is a rooted view of an agent configuration directory. Paths
// handed to validators are slash-separated and relative to Root.
type Workspace struct {
	Root     string
	Excludes []string
	loader   *docs.Loader
}

func NewWorkspace(root string, excludes []string) *Workspace {
	return &Workspace{
		Root:     root,
		Excludes: excludes,
		loader:   docs.NewLoader(),
	}
}

func (w *Workspace) excluded(rel string) bool {
	for _, pattern := range w.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// MarkdownFiles lists every .md document under the root, minus excludes,
// sorted for stable reports.
func (w *Workspace) MarkdownFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(strings.ToLower(rel), ".md") {
			return nil
		}
		if w.excluded(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (w *Workspace) Load(rel string) (*docs.Document, error) {
	return w.loader.Load(w.Abs(rel))
}

// Abs resolves a slash-relative workspace path to a filesystem path.
func (w *Workspace) Abs(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

func (w *Workspace) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(w.Root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// ContentHash fingerprints the validated surface of the workspace: the
// Markdown listing plus size and mtime per file, and the version manifest.
// Two equal hashes mean a rescan would reproduce the last report.
func (w *Workspace) ContentHash() (string, error) {
	files, err := w.MarkdownFiles()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, rel := range append(files, ".aget/version.json") {
		info, err := os.Stat(filepath.Join(w.Root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s|%d|%d\n", rel, info.Size(), info.ModTime().UnixNano())
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (w *Workspace) Size(rel string) (int64, error) {
	info, err := os.Stat(filepath.Join(w.Root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
