package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// Loader reads and parses documents, reusing the parse when the content
// hash has not moved since the last read.
type Loader struct {
	cache *lru.Cache[string, *Document]
	mu    sync.Mutex
}

func NewLoader() *Loader {
	cache, err := lru.New[string, *Document](defaultCacheSize)
	if err != nil {
		panic(err)
	}
	return &Loader{cache: cache}
}

func (l *Loader) Load(path string) (*Document, error) {
	content, enc, err := ReadFileAsUTF8(path)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache.Get(path); ok && cached.Hash == hash {
		return cached, nil
	}

	doc := Parse(path, content)
	doc.Hash = hash
	doc.Encoding = enc

	l.cache.Add(path, doc)
	return doc, nil
}

func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Remove(path)
}
