package app

import (
	"fmt"

	"github.com/shrimpsizemoose/quizdash/internal/snapshot"
	"github.com/shrimpsizemoose/quizdash/internal/source"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

type Service struct {
	Config *Config
	Source source.Source
	Cache  *snapshot.Cache
	Auth   *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	src, err := NewSource(
		config.Backend.URL,
		config.Backend.Key,
		config.Backend.Table,
		config.Backend.MigrationsDir,
		config.BackendTimeout(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init source: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	service, err := NewServiceWith(config, src, auth)
	if err != nil {
		src.Close()
		auth.Close()
		return nil, err
	}
	return service, nil
}

// NewServiceWith assembles a service from already opened parts.
func NewServiceWith(config *Config, src source.Source, auth *Auth) (*Service, error) {
	loc, err := table.NewLocalizer(config.Display.Timezone, config.Display.TimestampFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to init localizer: %w", err)
	}

	return &Service{
		Config: config,
		Source: src,
		Cache:  snapshot.NewCache(src, loc, config.CacheTTL()),
		Auth:   auth,
	}, nil
}

// DisplayView projects t with the configured table columns and labels.
func (s *Service) DisplayView(t *table.Table) table.View {
	return table.Project(t, s.Config.Display.Columns, s.Config.Display.Labels)
}

// ExportView projects t for CSV download. Headers are raw column names.
func (s *Service) ExportView(t *table.Table) table.View {
	return table.Project(t, s.Config.Export.Columns, nil)
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("source: %w", err))
	}
	if s.Auth != nil {
		if err := s.Auth.Close(); err != nil {
			errs = append(errs, fmt.Errorf("auth: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
