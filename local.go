package fsobj

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalProvider manages objects on a local filesystem. In production the
// filesystem is the OS one; tests may hand in an in-memory afero.Fs.
type LocalProvider struct {
	policy
	fs afero.Fs
}

// NewLocalProvider returns a provider on the OS filesystem.
func NewLocalProvider(cfg Config, opts ...ProviderOption) *LocalProvider {
	return NewLocalProviderFs(afero.NewOsFs(), cfg, opts...)
}

// NewLocalProviderFs returns a provider on fs.
func NewLocalProviderFs(fs afero.Fs, cfg Config, opts ...ProviderOption) *LocalProvider {
	return &LocalProvider{policy: newPolicy(cfg, opts), fs: fs}
}

func (p *LocalProvider) isDir(path string) bool {
	ok, err := afero.IsDir(p.fs, path)
	return err == nil && ok
}

// Exists requires the kind to match: a directory is never an existing
// file, so File.Delete cannot remove an empty directory.
func (p *LocalProvider) Exists(obj Object) bool {
	info, err := p.fs.Stat(obj.Path())
	if err != nil {
		return false
	}
	return info.IsDir() == obj.IsDir()
}

func (p *LocalProvider) Delete(obj Object) bool {
	p.debugf("delete: attempting to delete %s", obj.Path())
	if !p.guard("delete", obj, p.Exists) {
		return false
	}
	// Remove on a directory only succeeds when it is empty.
	if err := p.fs.Remove(obj.Path()); err != nil {
		p.debugf("delete: %v", err)
		return false
	}
	return true
}

func (p *LocalProvider) Rename(obj Object, newName string) bool {
	p.debugf("rename: attempting to rename %s to %s", obj.Path(), newName)
	if !p.guard("rename", obj, p.Exists) {
		return false
	}
	target := joinPath(obj.Dir(), newName, p.Separator())
	if err := p.fs.Rename(obj.Path(), target); err != nil {
		p.debugf("rename: %v", err)
		return false
	}
	return true
}

func (p *LocalProvider) CreateDirectory(dir *Directory) bool {
	return p.createTree(dir.Path(), treeOps{
		isDir:     p.isDir,
		canonical: p.canonical,
		mkdir: func(path string) bool {
			if err := p.fs.Mkdir(path, 0o755); err != nil {
				p.debugf("create: %v", err)
				return false
			}
			return true
		},
	})
}

// canonical resolves path to an absolute path. On the OS filesystem
// symlinks are resolved as well, so a link cannot be used to escape the
// allow-list.
func (p *LocalProvider) canonical(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if _, ok := p.fs.(*afero.OsFs); ok {
		if abs, err = filepath.EvalSymlinks(abs); err != nil {
			return "", false
		}
	}
	return abs, true
}

func (p *LocalProvider) ListSimple(dir *Directory) []string {
	infos := p.readDir(dir)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func (p *LocalProvider) ListFull(dir *Directory) []Object {
	var objects []Object
	for _, info := range p.readDir(dir) {
		path := joinPath(dir.Path(), info.Name(), p.Separator())
		obj, err := newChild(p, path, info.IsDir())
		if err != nil {
			p.debugf("list: skipping %s: %v", path, err)
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

func (p *LocalProvider) readDir(dir *Directory) []os.FileInfo {
	infos, err := afero.ReadDir(p.fs, dir.Path())
	if err != nil {
		p.debugf("list: %v", err)
		return nil
	}
	return infos
}
