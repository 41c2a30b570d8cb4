// Package astcache fronts an on-disk, content-hash-keyed cache of parsed
// ast.Module values with an in-process LRU layer, so re-analyzing an
// unchanged tree skips the parser entirely.
package astcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/fs"
	"github.com/typewright/typewright/internal/parser"
)

func init() {
	gob.Register(&ast.FunctionDef{})
	gob.Register(&ast.ClassDef{})
	gob.Register(&ast.Assign{})
	gob.Register(&ast.AugAssign{})
	gob.Register(&ast.Return{})
	gob.Register(&ast.If{})
	gob.Register(&ast.For{})
	gob.Register(&ast.While{})
	gob.Register(&ast.Import{})
	gob.Register(&ast.ImportFrom{})
	gob.Register(&ast.Call{})
	gob.Register(&ast.Attribute{})
	gob.Register(&ast.Name{})
	gob.Register(&ast.Literal{})
	gob.Register(&ast.ListExpr{})
	gob.Register(&ast.SetExpr{})
	gob.Register(&ast.TupleExpr{})
	gob.Register(&ast.DictExpr{})
	gob.Register(&ast.Comprehension{})
	gob.Register(&ast.Lambda{})
	gob.Register(&ast.Raise{})
	gob.Register(&ast.Pass{})
	gob.Register(&ast.Break{})
	gob.Register(&ast.Continue{})
	gob.Register(&ast.ExprStmt{})
}

// DirName is the cache directory created under the system tempdir.
const DirName = "typewright/ast_cache"

// Cache fronts an on-disk cache of parsed ast.Module values with an
// in-process LRU. It wraps a Parser so callers (the module loader) see a
// single GetAST entry point regardless of whether the result came from
// memory, disk, or a fresh parse.
type Cache struct {
	dir    string
	fs     fs.FS
	lru    *lru.Cache[string, *ast.Module]
	parser parser.Parser
}

// New creates the cache directory and wires up an in-process LRU of the
// given size in front of it. dir overrides the default location when
// non-empty. A directory-creation failure is returned to the caller and
// aborts analyzer startup.
func New(filesystem fs.FS, p parser.Parser, lruSize int, dir string) (*Cache, error) {
	if dir == "" {
		dir = filesystem.CombinePath(filesystem.GetSystemTempDir(), DirName)
	}
	if err := filesystem.CreateDirectory(dir); err != nil {
		return nil, fmt.Errorf("creating ast cache directory %s: %w", dir, err)
	}
	l, err := lru.New[string, *ast.Module](lruSize)
	if err != nil {
		return nil, fmt.Errorf("creating ast cache LRU: %w", err)
	}
	return &Cache{dir: dir, fs: filesystem, lru: l, parser: p}, nil
}

// GetAST returns the cached module for filePath if present (memory, then
// disk), otherwise parses it with the wrapped Parser and stores the result
// under both layers before returning it.
func (c *Cache) GetAST(filePath string) (*ast.Module, error) {
	content, err := c.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	key := c.key(content)

	if m, ok := c.lru.Get(key); ok {
		return m, nil
	}

	if m, ok := c.readDisk(key); ok {
		c.lru.Add(key, m)
		return m, nil
	}

	module, err := c.parser.GetAST(filePath)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, module)
	c.writeDisk(key, module)
	return module, nil
}

func (c *Cache) key(content []byte) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(parser.GrammarVersion))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return c.fs.CombinePath(c.dir, key+".gob")
}

func (c *Cache) readDisk(key string) (*ast.Module, bool) {
	data, err := c.fs.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var m ast.Module
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, false
	}
	return &m, true
}

func (c *Cache) writeDisk(key string, m *ast.Module) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return
	}
	_ = c.fs.WriteFile(c.path(key), buf.Bytes())
}

// Close flushes the in-process LRU. Cache entries on disk are already
// durable, so this is a no-op beyond dropping the in-memory layer; it
// exists for symmetry with the rest of the codebase's open-on-construction,
// close-on-shutdown resource convention.
func (c *Cache) Close() error {
	c.lru.Purge()
	return nil
}
