package fsobj

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

type Credentials struct {
	username string
	password []byte
}

// NewCredentials keeps a private copy of password so the caller can wipe
// its own.
func NewCredentials(username string, password []byte) *Credentials {
	passwordCopy := make([]byte, len(password))
	copy(passwordCopy, password)
	return &Credentials{username: username, password: passwordCopy}
}

func (c *Credentials) Username() string { return c.username }

func (c *Credentials) Clear() {
	SecureWipe(c.password)
	c.password = nil
}

// SecureWipe overwrites data with zeros.
func SecureWipe(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// AskPassword reads a password from the terminal without echoing it.
// Base64 encoded private keys are long, so no length limit applies.
func AskPassword() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Enter password: ")
	defer fmt.Fprintln(os.Stderr)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}
