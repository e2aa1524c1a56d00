package fsobj

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type SFTPSessionFactory struct{}

func (f *SFTPSessionFactory) Accept(u *url.URL) bool { return u.Scheme == "sftp" }

func (f *SFTPSessionFactory) Create(u *url.URL, password []byte) (SessionCloser, error) {
	return DialSFTP(u, password)
}

func (f *SFTPSessionFactory) Name() string { return "sftp" }

// SFTPSession is a Session on an SFTP subsystem. SFTP has no notion of a
// current directory, so the session keeps one and resolves relative paths
// against it.
type SFTPSession struct {
	client *sftp.Client
	ssh    *ssh.Client
	creds  *Credentials
	cwd    string
	sep    string
}

// knownHosts stores already verified host fingerprints
var (
	knownHosts   = make(map[string]string)
	knownHostsMu sync.Mutex
)

var hostKeyPrompt io.Reader = os.Stdin

var hostKeyVerificationCallback = func(hostname string, remote net.Addr, key ssh.PublicKey) error {
	fingerprint := ssh.FingerprintSHA256(key)

	knownHostsMu.Lock()
	storedFingerprint, exists := knownHosts[hostname]
	knownHostsMu.Unlock()
	if exists && storedFingerprint == fingerprint {
		return nil
	}

	fmt.Printf("\nThe authenticity of host '%s' can't be established.\n", hostname)
	fmt.Printf("%s key fingerprint is %s\n", key.Type(), fingerprint)
	fmt.Print("Are you sure you want to continue connecting (yes/no)? ")

	response, err := bufio.NewReader(hostKeyPrompt).ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response == "yes" || response == "y" {
		knownHostsMu.Lock()
		knownHosts[hostname] = fingerprint
		knownHostsMu.Unlock()
		return nil
	}

	return fmt.Errorf("host key verification rejected by user")
}

// authMethod picks public key auth when the secret is a base64 encoded
// private key and password auth otherwise.
func authMethod(secret []byte) ssh.AuthMethod {
	if keyBytes, err := base64.StdEncoding.DecodeString(string(secret)); err == nil {
		if signer, err := ssh.ParsePrivateKey(keyBytes); err == nil {
			return ssh.PublicKeys(signer)
		}
	}
	return ssh.Password(string(secret))
}

// DialSFTP opens an SSH connection to the server in u and starts the SFTP
// subsystem on it.
func DialSFTP(u *url.URL, password []byte) (*SFTPSession, error) {
	host := u.Host
	if u.Port() == "" {
		host += ":22"
	}

	config := &ssh.ClientConfig{
		User:            u.User.Username(),
		Auth:            []ssh.AuthMethod{authMethod(password)},
		HostKeyCallback: hostKeyVerificationCallback,
	}

	sshClient, err := ssh.Dial("tcp", host, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("failed to start sftp subsystem: %w", err)
	}

	s, err := NewSFTPSession(client)
	if err != nil {
		client.Close()
		sshClient.Close()
		return nil, err
	}
	s.ssh = sshClient
	s.creds = NewCredentials(u.User.Username(), password)
	return s, nil
}

// NewSFTPSession wraps an established client. The working directory starts
// at the server's.
func NewSFTPSession(client *sftp.Client) (*SFTPSession, error) {
	cwd, err := client.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return &SFTPSession{client: client, cwd: cwd}, nil
}

func (s *SFTPSession) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(s.cwd, p)
}

func (s *SFTPSession) WorkingDirectory() (string, error) {
	return s.cwd, nil
}

func (s *SFTPSession) ChangeDirectory(p string) error {
	target := s.resolve(p)
	info, err := s.client.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", target)
	}
	s.cwd = target
	return nil
}

func (s *SFTPSession) List(p string) ([]RemoteEntry, error) {
	infos, err := s.client.ReadDir(s.resolve(p))
	if err != nil {
		return nil, err
	}
	out := make([]RemoteEntry, 0, len(infos))
	for _, info := range infos {
		out = append(out, RemoteEntry{Name: info.Name(), IsDir: info.IsDir()})
	}
	return out, nil
}

func (s *SFTPSession) MakeDirectory(p string) error {
	return s.client.Mkdir(s.resolve(p))
}

func (s *SFTPSession) SetSeparator(sep string) { s.sep = sep }

// Remove deletes a file, or an empty directory when p ends in the separator.
func (s *SFTPSession) Remove(p string) error {
	if dir, ok := dirTarget(p, s.sep); ok {
		return s.client.RemoveDirectory(s.resolve(dir))
	}
	return s.client.Remove(s.resolve(p))
}

// Rename replaces an existing target, like a local rename does.
func (s *SFTPSession) Rename(from, to string) error {
	from, _ = dirTarget(from, s.sep)
	return s.client.PosixRename(s.resolve(from), s.resolve(to))
}

func (s *SFTPSession) Close() error {
	if s.creds != nil {
		s.creds.Clear()
	}
	err := s.client.Close()
	if s.ssh != nil {
		err = errors.Join(err, s.ssh.Close())
	}
	return err
}
