package fsobj

import (
	"errors"
	"io"
	"log"
	"path"
	"sort"
	"strings"
)

func quietLogger() ProviderOption {
	return WithLogger(log.New(io.Discard, "", 0), 0)
}

// tree is an in-memory directory tree keyed by clean absolute path.
type tree map[string]bool

// newTree creates the given paths and their parents. Paths ending in a slash
// are directories.
func newTree(paths ...string) tree {
	t := tree{"/": true}
	for _, p := range paths {
		isDir := strings.HasSuffix(p, "/")
		p = path.Clean(p)
		for dir := path.Dir(p); dir != "/"; dir = path.Dir(dir) {
			t[dir] = true
		}
		t[p] = isDir
	}
	return t
}

func (t tree) children(dir string) []string {
	var names []string
	for p := range t {
		if p != "/" && path.Dir(p) == dir {
			names = append(names, path.Base(p))
		}
	}
	sort.Strings(names)
	return names
}

// fakeSession is a Session on a tree that records every call.
type fakeSession struct {
	cwd       string
	nodes     tree
	calls     []string
	failMkdir string
}

func newFakeSession(cwd string, paths ...string) *fakeSession {
	return &fakeSession{cwd: cwd, nodes: newTree(paths...)}
}

func (s *fakeSession) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(s.cwd, p)
}

func (s *fakeSession) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeSession) WorkingDirectory() (string, error) { return s.cwd, nil }

func (s *fakeSession) ChangeDirectory(p string) error {
	s.calls = append(s.calls, "cd "+p)
	target := s.resolve(p)
	if !s.nodes[target] {
		return errors.New("550 no such directory")
	}
	s.cwd = target
	return nil
}

func (s *fakeSession) List(p string) ([]RemoteEntry, error) {
	s.calls = append(s.calls, "ls "+p)
	dir := s.resolve(p)
	if !s.nodes[dir] {
		return nil, errors.New("550 no such directory")
	}
	entries := []RemoteEntry{{Name: ".", IsDir: true}, {Name: "..", IsDir: true}}
	for _, name := range s.nodes.children(dir) {
		entries = append(entries, RemoteEntry{Name: name, IsDir: s.nodes[path.Join(dir, name)]})
	}
	return entries, nil
}

func (s *fakeSession) MakeDirectory(p string) error {
	s.calls = append(s.calls, "mkdir "+p)
	target := s.resolve(p)
	if target == s.failMkdir {
		return errors.New("550 permission denied")
	}
	if _, ok := s.nodes[target]; ok {
		return errors.New("550 already exists")
	}
	if !s.nodes[path.Dir(target)] {
		return errors.New("550 no parent")
	}
	s.nodes[target] = true
	return nil
}

func (s *fakeSession) Remove(p string) error {
	s.calls = append(s.calls, "rm "+p)
	dir := strings.HasSuffix(p, "/")
	target := s.resolve(p)
	isDir, ok := s.nodes[target]
	if !ok || isDir != dir {
		return errors.New("550 not found")
	}
	if isDir && len(s.nodes.children(target)) > 0 {
		return errors.New("550 directory not empty")
	}
	delete(s.nodes, target)
	return nil
}

func (s *fakeSession) Rename(from, to string) error {
	s.calls = append(s.calls, "mv "+from+" "+to)
	src, dst := s.resolve(from), s.resolve(to)
	if _, ok := s.nodes[src]; !ok {
		return errors.New("550 not found")
	}
	for p, isDir := range s.nodes {
		if p == src || strings.HasPrefix(p, src+"/") {
			delete(s.nodes, p)
			s.nodes[dst+strings.TrimPrefix(p, src)] = isDir
		}
	}
	return nil
}

// recordingProvider is a Provider on a tree that records the order of
// deletions and how often directories are listed.
type recordingProvider struct {
	policy
	nodes   tree
	deleted []string
	lists   int
}

func newRecordingProvider(paths ...string) *recordingProvider {
	pol := newPolicy(DefaultRemoteConfig(), []ProviderOption{quietLogger()})
	pol.separatorAdmitsAll = true
	return &recordingProvider{policy: pol, nodes: newTree(paths...)}
}

func (p *recordingProvider) Exists(obj Object) bool {
	isDir, ok := p.nodes[path.Clean(obj.Path())]
	return ok && isDir == obj.IsDir()
}

func (p *recordingProvider) Delete(obj Object) bool {
	if !p.guard("delete", obj, p.Exists) {
		return false
	}
	target := path.Clean(obj.Path())
	if obj.IsDir() && len(p.nodes.children(target)) > 0 {
		return false
	}
	delete(p.nodes, target)
	p.deleted = append(p.deleted, target)
	return true
}

func (p *recordingProvider) Rename(obj Object, newName string) bool {
	return false
}

func (p *recordingProvider) CreateDirectory(dir *Directory) bool {
	return false
}

func (p *recordingProvider) ListSimple(dir *Directory) []string {
	p.lists++
	return p.nodes.children(path.Clean(dir.Path()))
}

func (p *recordingProvider) ListFull(dir *Directory) []Object {
	p.lists++
	var objects []Object
	for _, name := range p.nodes.children(path.Clean(dir.Path())) {
		child := joinPath(dir.Path(), name, "/")
		obj, err := newChild(p, child, p.nodes[child])
		if err != nil {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}
