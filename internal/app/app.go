package app

import (
	"io"

	"github.com/sirupsen/logrus"

	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/logging"
	"p2pmessenger/internal/session"
)

// App bundles the loaded configuration and the logger for the CLI.
type App struct {
	Config Config
	Log    *logrus.Logger
}

// New builds the logger described by cfg, writing to logOut.
func New(cfg Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Log: log}, nil
}

// NewListener builds a listener session that reports to obs.
func (a *App) NewListener(obs domain.Observer, opts ...session.Option) (*session.Listener, error) {
	opts = append([]session.Option{session.WithLogger(a.Log)}, opts...)
	return session.NewListener(a.Config.Session(), obs, opts...)
}

// NewDialer builds a dialer session that reports to obs.
func (a *App) NewDialer(obs domain.Observer, opts ...session.Option) (*session.Dialer, error) {
	opts = append([]session.Option{session.WithLogger(a.Log)}, opts...)
	return session.NewDialer(a.Config.Session(), obs, opts...)
}
