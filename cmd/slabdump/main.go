// Command slabdump opens a T-DB slab file and prints the shape of its
// root node and, one level down, the shape (and, for recognized string
// array layouts, the decoded entries) of each of the root's children.
//
// It is a read-only consumer of the public slabdb surface: it prints
// node shapes only and never interprets table/column/row semantics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger"

	"github.com/bsm/slabdb"
)

func main() {
	cache := flag.Bool("cache", false, "memoize rendered node dumps in a badger-backed cache keyed by ref")
	cacheDir := flag.String("cache-dir", "", "directory for the badger cache (default: a temp dir, removed on exit)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: slabdump [-cache] [-cache-dir DIR] FILE")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		log.Fatalln(err)
	}

	src, err := slabdb.ReadByteSource(f, fi.Size())
	if err != nil {
		log.Fatalln(err)
	}

	h, err := slabdb.Open(src, nil)
	if err != nil {
		log.Fatalln(err)
	}

	if h.Empty() {
		fmt.Println("empty database")
		return
	}

	render := func(i uint32, ref uint64) (string, error) { return renderChild(h, i, ref) }
	if *cache {
		c, closeCache, err := newDumpCache(*cacheDir)
		if err != nil {
			log.Fatalln(err)
		}
		defer closeCache()
		render = func(i uint32, ref uint64) (string, error) { return c.render(h, i, ref) }
	}

	root, err := h.Root()
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Print(renderShape("root", root))

	for i := uint32(0); i < root.Size(); i++ {
		ref, err := root.GetRef(i)
		if err != nil {
			fmt.Printf("  [%d] <not a ref>\n", i)
			continue
		}
		if ref == 0 {
			fmt.Printf("  [%d] <absent>\n", i)
			continue
		}
		out, err := render(i, ref)
		if err != nil {
			fmt.Printf("  [%d] ref=0x%x: %v\n", i, ref, err)
			continue
		}
		fmt.Print(out)
	}
}

func renderShape(label string, n slabdb.NodeView) string {
	return fmt.Sprintf("%s: ref=0x%x size=%d width=%d has_refs=%v context_flag=%v inner_bptree=%v\n",
		label, n.Ref(), n.Size(), n.Width(), n.HasRefs(), n.ContextFlag(), n.IsInnerBptree())
}

// renderChild decodes the node at ref and renders its shape plus, for
// recognized string-array layouts, its decoded entries. The index only
// affects the printed label, never the rendered body, so the body is
// safe to memoize by ref alone.
func renderChild(h *slabdb.Handle, i uint32, ref uint64) (string, error) {
	n, err := h.NodeAt(ref)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(renderShape(fmt.Sprintf("  [%d]", i), n))

	switch {
	case !n.HasRefs():
		if arr, err := slabdb.NewShortStringArray(n); err == nil {
			renderStrings(&b, arr.Len(), arr.GetString)
		}
	case !n.ContextFlag():
		if arr, err := slabdb.NewLongStringArray(n); err == nil {
			renderStrings(&b, arr.Len(), arr.GetString)
		}
	}
	return b.String(), nil
}

func renderStrings(b *strings.Builder, n uint32, get func(uint32) (string, bool, error)) {
	for i := uint32(0); i < n; i++ {
		v, ok, err := get(i)
		switch {
		case err != nil:
			fmt.Fprintf(b, "      %d: <error: %v>\n", i, err)
		case !ok:
			fmt.Fprintf(b, "      %d: <null>\n", i)
		default:
			fmt.Fprintf(b, "      %d: %q\n", i, v)
		}
	}
}

// dumpCache memoizes rendered node dumps in a badger.DB keyed by the
// 8-byte little-endian ref. A hit returns the stored rendering without
// touching the slab again, so a ref that appears more than once in a dump
// — or in any earlier dump sharing the same -cache-dir — skips node
// decoding, string-array construction and formatting entirely. The label
// prefix is rewritten per hit since the same node may be reached at a
// different child index.
type dumpCache struct {
	db *badger.DB
}

func newDumpCache(dir string) (*dumpCache, func(), error) {
	temp := false
	if dir == "" {
		d, err := os.MkdirTemp("", "slabdump-cache-*")
		if err != nil {
			return nil, nil, err
		}
		dir = d
		temp = true
	}

	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
		if temp {
			os.RemoveAll(dir)
		}
	}
	return &dumpCache{db: db}, cleanup, nil
}

func (c *dumpCache) render(h *slabdb.Handle, i uint32, ref uint64) (string, error) {
	key := refKey(ref)

	if body, found, err := c.get(key); err != nil {
		return "", err
	} else if found {
		return fmt.Sprintf("  [%d]%s", i, body), nil
	}

	out, err := renderChild(h, i, ref)
	if err != nil {
		return "", err
	}

	// Strip the per-call label so the stored body is index-independent.
	body := strings.TrimPrefix(out, fmt.Sprintf("  [%d]", i))
	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(body))
	})
	return out, nil
}

func (c *dumpCache) get(key []byte) (string, bool, error) {
	var body string
	var found bool
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.Value()
		if err != nil {
			return err
		}
		body = string(val)
		found = true
		return nil
	})
	return body, found, err
}

func refKey(ref uint64) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(ref >> (8 * i))
	}
	return b[:]
}
