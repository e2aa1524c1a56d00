package fsobj

import (
	"log"
	"strings"
	"sync"
	"time"
)

// Provider is the storage backend every Object delegates to. Mutating
// operations report failure through their boolean result and never panic.
type Provider interface {
	// Exists reports whether obj is present on the backend.
	Exists(obj Object) bool

	// Delete removes a single file or an empty directory. Recursion is the
	// job of Directory.Delete.
	Delete(obj Object) bool

	// Rename moves obj to newName inside its parent directory. An existing
	// target is overwritten.
	Rename(obj Object, newName string) bool

	// CreateDirectory creates dir and any missing ancestors.
	CreateDirectory(dir *Directory) bool

	// ListSimple returns the entry names of dir.
	ListSimple(dir *Directory) []string

	// ListFull returns the entries of dir as File and Directory objects
	// bound to this provider.
	ListFull(dir *Directory) []Object

	// IsAllowedDir reports whether path lies inside the allow-list.
	IsAllowedDir(path string) bool

	Separator() string
	FilesMustExist() bool
	DirectoriesMustExist() bool
}

// Attributes stores information about a file or directory. Providers do not
// fill it in; callers may attach one with SetAttributes.
type Attributes struct {
	Size        int64
	Created     time.Time
	Changed     time.Time
	Permissions uint32
	User        string
	Group       string
}

// ProviderOption configures a provider.
type ProviderOption func(*policy)

// WithLogger sets the logger and the verbosity. Trace lines are written when
// verbosity reaches the configured debug level.
func WithLogger(logger *log.Logger, verbosity int) ProviderOption {
	return func(p *policy) {
		if logger != nil {
			p.logger = logger
		}
		p.verbosity = verbosity
	}
}

// policy is the part of a provider that only depends on its Config.
type policy struct {
	cfg       Config
	logger    *log.Logger
	verbosity int

	// separatorAdmitsAll makes an allow-list entry equal to the separator
	// match every path, relative ones included.
	separatorAdmitsAll bool
}

// defaultSeparator is used when a Config leaves DirectorySeparator empty.
const defaultSeparator = "/"

func newPolicy(cfg Config, opts []ProviderOption) policy {
	if cfg.DirectorySeparator == "" {
		cfg.DirectorySeparator = defaultSeparator
	}
	p := policy{cfg: cfg, logger: log.Default()}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// IsAllowedDir is a raw prefix test: /var/data2 matches an allowed
// /var/data unless StrictPrefix is set. On remote providers an entry equal
// to the separator admits every path.
func (p *policy) IsAllowedDir(path string) bool {
	sep := p.cfg.DirectorySeparator
	for _, allowed := range p.cfg.AllowedPaths {
		if allowed == "" {
			continue
		}
		if allowed == sep && p.separatorAdmitsAll {
			return true
		}
		if !strings.HasPrefix(path, allowed) {
			continue
		}
		if !p.cfg.StrictPrefix {
			return true
		}
		rest := path[len(allowed):]
		if rest == "" || strings.HasSuffix(allowed, sep) || strings.HasPrefix(rest, sep) {
			return true
		}
	}
	return false
}

func (p *policy) Separator() string          { return p.cfg.DirectorySeparator }
func (p *policy) FilesMustExist() bool       { return p.cfg.FilesMustExist }
func (p *policy) DirectoriesMustExist() bool { return p.cfg.DirectoriesMustExist }

func (p *policy) debugf(format string, args ...any) {
	if p.verbosity >= p.cfg.DebugLevel {
		p.logger.Printf(format, args...)
	}
}

func (p *policy) warnf(format string, args ...any) {
	p.logger.Printf("warning: "+format, args...)
}

// refuseRoot reports whether path is the empty path or the separator root,
// warning when it is.
func (p *policy) refuseRoot(op, path string) bool {
	if isRootPath(path, p.cfg.DirectorySeparator) {
		p.warnf("%s: refusing to touch root path %q", op, path)
		return true
	}
	return false
}

// guard applies the checks shared by Delete and Rename.
func (p *policy) guard(op string, obj Object, exists func(Object) bool) bool {
	if p.refuseRoot(op, obj.Path()) {
		return false
	}
	return exists(obj)
}

// treeOps are the backend primitives used by createTree.
type treeOps struct {
	isDir     func(path string) bool
	canonical func(path string) (string, bool)
	mkdir     func(path string) bool
}

// createTree walks up from target until it finds an existing directory,
// checks that ancestor against the allow-list and then creates the missing
// segments top-down. Segments created before a failure are left in place.
func (p *policy) createTree(target string, ops treeOps) bool {
	sep := p.cfg.DirectorySeparator
	p.debugf("create: attempting to create %s", target)

	path := target
	var stack []string
	for path != sep && path != "" && !ops.isDir(path) {
		stack = append(stack, basename(path, sep))
		path = dirname(path, sep)
	}

	root, ok := ops.canonical(path)
	if !ok || !p.IsAllowedDir(root) {
		p.debugf("create: not allowed by config to create %s", target)
		return false
	}

	for i := len(stack) - 1; i >= 0; i-- {
		root = joinPath(root, stack[i], sep)
		if !ops.mkdir(root) {
			p.debugf("create: failed at %s", root)
			return false
		}
	}
	p.debugf("create: created %s", target)
	return true
}

// newChild builds a listed entry. Directories stay in advanced mode so a
// recursive walk keeps getting objects.
func newChild(p Provider, path string, isDir bool) (Object, error) {
	if isDir {
		return NewDirectory(path, true, p)
	}
	return NewFile(path, p)
}

var (
	defaultProviderMu sync.Mutex
	defaultProvider   Provider
)

// DefaultProvider returns the process-wide provider used by constructors
// that are not given one. Unless replaced with SetDefaultProvider it is a
// LocalProvider on the OS filesystem with DefaultLocalConfig.
func DefaultProvider() Provider {
	defaultProviderMu.Lock()
	defer defaultProviderMu.Unlock()
	if defaultProvider == nil {
		defaultProvider = NewLocalProvider(DefaultLocalConfig())
	}
	return defaultProvider
}

// SetDefaultProvider replaces the process-wide provider.
func SetDefaultProvider(p Provider) {
	defaultProviderMu.Lock()
	defaultProvider = p
	defaultProviderMu.Unlock()
}
