package fsobj

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
)

type FTPSessionFactory struct{}

func (f *FTPSessionFactory) Accept(u *url.URL) bool {
	return u.Scheme == "ftp"
}

func (f *FTPSessionFactory) Create(u *url.URL, password []byte) (SessionCloser, error) {
	return DialFTP(u, password)
}

func (f *FTPSessionFactory) Name() string {
	return "ftp"
}

// ftpConn is the part of *ftp.ServerConn used by FTPSession.
type ftpConn interface {
	CurrentDir() (string, error)
	ChangeDir(path string) error
	List(path string) ([]*ftp.Entry, error)
	MakeDir(path string) error
	Delete(path string) error
	RemoveDir(path string) error
	Rename(from, to string) error
	Quit() error
}

// FTPSession is a Session on an FTP control connection.
type FTPSession struct {
	conn  ftpConn
	creds *Credentials // wiped on Close
	sep   string
}

const dialAttempts = 3

// DialFTP connects and logs in to the server in u. The dial is retried with
// a growing pause before giving up.
func DialFTP(u *url.URL, password []byte) (*FTPSession, error) {
	host := u.Host
	if u.Port() == "" {
		host += ":21"
	}

	var c *ftp.ServerConn
	var err error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		c, err = ftp.Dial(host, ftp.DialWithTimeout(30*time.Second))
		if err == nil {
			break
		}
		log.Printf("Dial %s failed (attempt %d): %v", host, attempt+1, err)
		time.Sleep(time.Second * time.Duration(attempt+1))
	}
	if err != nil {
		return nil, fmt.Errorf("failed after %d attempts: %w", dialAttempts, err)
	}

	if err := c.Login(u.User.Username(), string(password)); err != nil {
		c.Quit() // Close connection on login failure
		return nil, err
	}

	return &FTPSession{
		conn:  c,
		creds: NewCredentials(u.User.Username(), password),
	}, nil
}

func (s *FTPSession) WorkingDirectory() (string, error) {
	return s.conn.CurrentDir()
}

func (s *FTPSession) ChangeDirectory(path string) error {
	return s.conn.ChangeDir(path)
}

func (s *FTPSession) List(path string) ([]RemoteEntry, error) {
	entries, err := s.conn.List(path)
	if err != nil {
		return nil, err
	}
	out := make([]RemoteEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, RemoteEntry{Name: e.Name, IsDir: e.Type == ftp.EntryTypeFolder})
	}
	return out, nil
}

func (s *FTPSession) MakeDirectory(path string) error {
	return s.conn.MakeDir(path)
}

func (s *FTPSession) SetSeparator(sep string) { s.sep = sep }

// Remove deletes a file, or an empty directory when path ends in the
// separator.
func (s *FTPSession) Remove(path string) error {
	if dir, ok := dirTarget(path, s.sep); ok {
		return s.conn.RemoveDir(dir)
	}
	return s.conn.Delete(path)
}

func (s *FTPSession) Rename(from, to string) error {
	from, _ = dirTarget(from, s.sep)
	return s.conn.Rename(from, to)
}

func (s *FTPSession) Close() error {
	if s.creds != nil {
		s.creds.Clear()
	}
	return s.conn.Quit()
}
