package fsobj

import "fmt"

// File is a regular file on a provider.
type File struct {
	object
}

// NewFile binds path to p, or to the default provider when p is nil. The
// parent directory must be allowed by the provider, and the file must exist
// if the provider says files must exist.
func NewFile(path string, p Provider) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file: %w", ErrNoPath)
	}
	f := &File{object: newObject(path, p)}

	if !f.provider.IsAllowedDir(f.Dir()) {
		return nil, fmt.Errorf("file %s: %w", path, ErrNotAllowed)
	}
	if err := f.checkExists(f, f.provider.FilesMustExist(), "file"); err != nil {
		return nil, err
	}
	return f, nil
}

// Filename returns the name of the file without its directory.
func (f *File) Filename() string {
	return f.Name()
}

// Extension returns the part of the filename after the last dot, or "".
func (f *File) Extension() string {
	_, ext := splitExtension(f.Name())
	return ext
}

// BaseFilename returns the filename without its extension.
func (f *File) BaseFilename() string {
	base, _ := splitExtension(f.Name())
	return base
}

func (f *File) IsDir() bool { return false }

func (f *File) Exists() bool { return f.provider.Exists(f) }

func (f *File) Delete() bool { return f.provider.Delete(f) }

func (f *File) Rename(newName string) bool { return f.provider.Rename(f, newName) }

func (f *File) String() string { return f.Name() }
