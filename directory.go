package fsobj

import (
	"fmt"
	"iter"
	"log"
	"sort"
	"strings"
)

// Entry is one item of a directory listing. Object is nil unless the
// listing was made in advanced mode.
type Entry struct {
	Name   string
	Object Object
}

func (e Entry) String() string { return e.Name }

// Directory is a directory on a provider. Its content is read lazily on
// first use and kept until Content is called again.
//
// A Directory is not safe for concurrent use.
type Directory struct {
	object
	advanced bool
	content  []Entry
	loaded   bool
}

// NewDirectory binds path to p, or to the default provider when p is nil.
// In advanced mode the content is returned as File and Directory objects
// instead of bare names.
func NewDirectory(path string, advanced bool, p Provider) (*Directory, error) {
	if path == "" {
		return nil, fmt.Errorf("directory: %w", ErrNoPath)
	}
	d := &Directory{object: newObject(path, p), advanced: advanced}

	if !d.provider.IsAllowedDir(d.fullPath) {
		return nil, fmt.Errorf("directory %s: %w", path, ErrNotAllowed)
	}
	if err := d.checkExists(d, d.provider.DirectoriesMustExist(), "directory"); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) IsDir() bool { return true }

// Name returns the last non-empty segment, so /this/is/mydir/ gives mydir.
func (d *Directory) Name() string {
	parts := strings.Split(d.fullPath, d.sep)
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

func (d *Directory) AdvancedMode() bool { return d.advanced }

// SetAdvancedMode changes the listing mode. The cached content is kept until
// the next call to Content.
func (d *Directory) SetAdvancedMode(advanced bool) { d.advanced = advanced }

// Content reads the directory from the provider, replacing any cached
// content, and returns it.
func (d *Directory) Content() []Entry {
	var entries []Entry
	if d.advanced {
		for _, obj := range d.provider.ListFull(d) {
			entries = append(entries, Entry{Name: obj.Name(), Object: obj})
		}
	} else {
		for _, name := range d.provider.ListSimple(d) {
			entries = append(entries, Entry{Name: name})
		}
	}
	d.content = entries
	d.loaded = true
	return entries
}

func (d *Directory) ensureContent() {
	if !d.loaded {
		d.Content()
	}
}

// All iterates over the cached content, reading it first if needed.
// Iterating again replays the same entries.
func (d *Directory) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		d.ensureContent()
		for i, e := range d.content {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Count returns the number of entries, reading the content if needed.
func (d *Directory) Count() int {
	d.ensureContent()
	return len(d.content)
}

// Sort orders the cached content by name.
func (d *Directory) Sort() {
	d.ensureContent()
	sort.SliceStable(d.content, func(i, j int) bool {
		return d.content[i].Name < d.content[j].Name
	})
}

// RelativePath returns the path of d relative to base. The second result is
// false when d is not below base.
func (d *Directory) RelativePath(base string) (string, bool, error) {
	if base == "" {
		return "", false, fmt.Errorf("relative path: %w", ErrNoPath)
	}
	if !strings.HasSuffix(base, d.sep) {
		base += d.sep
	}
	if !strings.HasPrefix(d.fullPath, base) {
		return "", false, nil
	}
	return d.fullPath[len(base):], true, nil
}

func (d *Directory) Exists() bool { return d.provider.Exists(d) }

func (d *Directory) Rename(newName string) bool { return d.provider.Rename(d, newName) }

// Create creates the directory and any missing parents.
func (d *Directory) Create() bool { return d.provider.CreateDirectory(d) }

// Delete removes the directory and everything below it, children first.
// The empty path and the separator root are always refused. A failure
// halfway leaves the tree partially deleted.
func (d *Directory) Delete() bool {
	if d.refusesRoot() {
		return false
	}
	if !d.provider.Exists(d) {
		return false
	}

	target := d
	if !d.advanced {
		target = d.withMode(true)
	}
	for _, e := range target.Content() {
		if e.Object != nil {
			e.Object.Delete()
		}
	}
	return d.provider.Delete(target)
}

// rootRefuser is implemented by the providers of this package, which log
// the refusal through their own logger.
type rootRefuser interface {
	refuseRoot(op, path string) bool
}

func (d *Directory) refusesRoot() bool {
	if r, ok := d.provider.(rootRefuser); ok {
		return r.refuseRoot("delete", d.fullPath)
	}
	if isRootPath(d.fullPath, d.sep) {
		log.Printf("warning: delete: refusing to touch root path %q", d.fullPath)
		return true
	}
	return false
}

// withMode returns a copy of d with its own empty cache and the given mode.
func (d *Directory) withMode(advanced bool) *Directory {
	c := *d
	c.advanced = advanced
	c.content = nil
	c.loaded = false
	return &c
}
