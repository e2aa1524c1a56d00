package fsobj

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPath is returned when an object is constructed without a path.
	ErrNoPath = errors.New("no path given")
	// ErrNotAllowed is returned when a path is outside the provider allow-list.
	ErrNotAllowed = errors.New("path is not in an allowed tree")
	// ErrNotExist is returned when the provider requires the object to exist
	// and it does not.
	ErrNotExist = errors.New("does not exist")
)

// Object is a File or a Directory.
type Object interface {
	// Path returns the full path as given at construction.
	Path() string
	// Name returns the last segment of the path.
	Name() string
	// Dir returns the path of the parent directory.
	Dir() string
	IsDir() bool
	Provider() Provider
	Attributes() *Attributes
	SetAttributes(attrs *Attributes)

	Exists() bool
	Delete() bool
	Rename(newName string) bool

	sealed()
}

// object holds what File and Directory have in common. The path never
// changes after construction, a rename does not update it.
type object struct {
	fullPath   string
	sep        string
	provider   Provider
	attributes *Attributes
}

func newObject(path string, p Provider) object {
	if p == nil {
		p = DefaultProvider()
	}
	return object{fullPath: path, sep: p.Separator(), provider: p}
}

// checkExists enforces the provider existence policy for self.
func (o *object) checkExists(self Object, mustExist bool, kind string) error {
	if mustExist && !o.provider.Exists(self) {
		return fmt.Errorf("%s %s: %w", kind, o.fullPath, ErrNotExist)
	}
	return nil
}

func (o *object) Path() string                   { return o.fullPath }
func (o *object) Name() string                   { return basename(o.fullPath, o.sep) }
func (o *object) Dir() string                    { return dirname(o.fullPath, o.sep) }
func (o *object) Provider() Provider             { return o.provider }
func (o *object) Attributes() *Attributes        { return o.attributes }
func (o *object) SetAttributes(attrs *Attributes) { o.attributes = attrs }
func (o *object) sealed()                        {}
