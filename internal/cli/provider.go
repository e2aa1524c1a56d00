package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"

	"github.com/yarkm13/fsobj"
)

// openProvider builds the provider selected by --url. The returned closer
// releases the remote session, if any.
func openProvider() (fsobj.Provider, io.Closer, error) {
	if options.url == "" {
		cfg, err := loadConfig(fsobj.DefaultLocalConfig())
		if err != nil {
			return nil, nil, err
		}
		return fsobj.NewLocalProvider(cfg, providerLogger()), nopCloser{}, nil
	}

	u, err := url.Parse(options.url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL: %w", err)
	}
	factory := fsobj.SessionFactoryFor(u)
	if factory == nil {
		return nil, nil, fmt.Errorf("no session available for scheme: %s", u.Scheme)
	}

	var password []byte
	if pw, ok := u.User.Password(); ok {
		password = []byte(pw)
	} else if password, err = fsobj.AskPassword(); err != nil {
		return nil, nil, err
	}
	defer fsobj.SecureWipe(password)

	cfg, err := loadConfig(fsobj.DefaultRemoteConfig())
	if err != nil {
		return nil, nil, err
	}

	session, err := factory.Create(u, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s error: %w", factory.Name(), err)
	}
	p, err := fsobj.NewRemoteProvider(session, cfg, providerLogger())
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return p, session, nil
}

// loadConfig reads --config, or fsobj.yaml when it exists, then applies
// the environment.
func loadConfig(defaults fsobj.Config) (fsobj.Config, error) {
	path := options.configPath
	if path == "" {
		path = fsobj.ConfigFileName
	}
	cfg, err := fsobj.LoadConfig(path, defaults)
	if errors.Is(err, fsobj.ErrConfigNotFound) && options.configPath == "" {
		err = nil
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func providerLogger() fsobj.ProviderOption {
	return fsobj.WithLogger(log.New(os.Stderr, "", log.LstdFlags), options.verbose)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
