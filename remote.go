package fsobj

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// RemoteProvider manages objects through a remote Session, such as an FTP
// or SFTP connection. The session is shared and has a single working
// directory, so every call is serialized and probing changes of directory
// are undone before returning.
type RemoteProvider struct {
	policy
	mu      sync.Mutex
	session Session
	root    string
}

// NewRemoteProvider binds a provider to session. The current working
// directory of the session becomes the directory restored after probes.
func NewRemoteProvider(session Session, cfg Config, opts ...ProviderOption) (*RemoteProvider, error) {
	if session == nil {
		return nil, errors.New("remote provider: no session given")
	}
	root, err := session.WorkingDirectory()
	if err != nil {
		return nil, fmt.Errorf("remote provider: failed to get working directory: %w", err)
	}
	pol := newPolicy(cfg, opts)
	pol.separatorAdmitsAll = true
	if s, ok := session.(separatorSetter); ok {
		s.SetSeparator(pol.cfg.DirectorySeparator)
	}
	return &RemoteProvider{policy: pol, session: session, root: root}, nil
}

// Root returns the working directory captured at construction.
func (p *RemoteProvider) Root() string { return p.root }

// Exists for a file lists its parent directory, which is slow on large
// directories.
func (p *RemoteProvider) Exists(obj Object) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if obj.IsDir() {
		return p.dirExists(obj.Path())
	}
	return p.fileExists(obj.Dir(), obj.Name())
}

func (p *RemoteProvider) dirExists(path string) bool {
	err := p.session.ChangeDirectory(path)
	_ = p.session.ChangeDirectory(p.root)
	return err == nil
}

func (p *RemoteProvider) fileExists(dir, name string) bool {
	if err := p.session.ChangeDirectory(dir); err != nil {
		return false
	}
	_ = p.session.ChangeDirectory(p.root)

	entries, err := p.session.List(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir && e.Name == name {
			return true
		}
	}
	return false
}

func (p *RemoteProvider) Delete(obj Object) bool {
	p.debugf("delete: attempting to delete %s", obj.Path())
	if !p.guard("delete", obj, p.Exists) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.Remove(p.target(obj)); err != nil {
		p.debugf("delete: %v", err)
		return false
	}
	return true
}

func (p *RemoteProvider) Rename(obj Object, newName string) bool {
	p.debugf("rename: attempting to rename %s to %s", obj.Path(), newName)
	if !p.guard("rename", obj, p.Exists) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	to := joinPath(obj.Dir(), newName, p.Separator())
	if err := p.session.Rename(p.target(obj), to); err != nil {
		p.debugf("rename: %v", err)
		return false
	}
	return true
}

// target is the path handed to the session: directories carry a trailing
// separator.
func (p *RemoteProvider) target(obj Object) string {
	if obj.IsDir() && !strings.HasSuffix(obj.Path(), p.Separator()) {
		return obj.Path() + p.Separator()
	}
	return obj.Path()
}

func (p *RemoteProvider) CreateDirectory(dir *Directory) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createTree(dir.Path(), treeOps{
		isDir: p.dirExists,
		canonical: func(path string) (string, bool) {
			if path == "" || path == "." {
				return p.root, true
			}
			return path, true
		},
		mkdir: func(path string) bool {
			if err := p.session.MakeDirectory(path); err != nil {
				p.debugf("create: %v", err)
				return false
			}
			return true
		},
	})
}

func (p *RemoteProvider) ListSimple(dir *Directory) []string {
	entries := p.list(dir)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func (p *RemoteProvider) ListFull(dir *Directory) []Object {
	// Children are built without holding the lock: their constructors may
	// call Exists.
	var objects []Object
	for _, e := range p.list(dir) {
		path := joinPath(dir.Path(), e.Name, p.Separator())
		obj, err := newChild(p, path, e.IsDir)
		if err != nil {
			p.debugf("list: skipping %s: %v", path, err)
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

func (p *RemoteProvider) list(dir *Directory) []RemoteEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries, err := p.session.List(dir.Path())
	if err != nil {
		p.debugf("list: %v", err)
		return nil
	}
	out := make([]RemoteEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		out = append(out, e)
	}
	return out
}
