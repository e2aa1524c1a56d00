package fsobj

import (
	"io"
	"net/url"
	"strings"
)

// RemoteEntry is one line of a remote directory listing.
type RemoteEntry struct {
	Name  string
	IsDir bool
}

// Session is a connection to a remote server with a current working
// directory. A path ending in the separator passed to Remove or Rename
// denotes a directory. The separator is "/" unless the session implements
// SetSeparator, which RemoteProvider calls with its configured one.
type Session interface {
	WorkingDirectory() (string, error)
	ChangeDirectory(path string) error
	List(path string) ([]RemoteEntry, error)
	MakeDirectory(path string) error
	Remove(path string) error
	Rename(from, to string) error
}

type separatorSetter interface {
	SetSeparator(sep string)
}

// dirTarget strips the separator marking a directory target from p.
func dirTarget(p, sep string) (string, bool) {
	if sep == "" {
		sep = defaultSeparator
	}
	return strings.CutSuffix(p, sep)
}

// SessionCloser is a Session that owns a network connection.
type SessionCloser interface {
	Session
	io.Closer
}

// SessionFactory opens sessions for the URL schemes it accepts.
type SessionFactory interface {
	Accept(u *url.URL) bool
	Create(u *url.URL, password []byte) (SessionCloser, error)
	Name() string
}

var sessionFactories = []SessionFactory{
	&FTPSessionFactory{},
	&SFTPSessionFactory{},
}

// SessionFactoryFor returns the factory accepting u, or nil.
func SessionFactoryFor(u *url.URL) SessionFactory {
	for _, factory := range sessionFactories {
		if factory.Accept(u) {
			return factory
		}
	}
	return nil
}
