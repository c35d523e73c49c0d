package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/narvaro/internal/attendance"
	"github.com/shrimpsizemoose/narvaro/internal/store"
)

type Service struct {
	Config *Config
	Store  store.AttendanceStore
	Auth   *Auth
	Marker *attendance.Marker
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	marker := attendance.NewMarker(
		store,
		config.Attendance.LateAfterMinutes,
		config.Attendance.EnforceTimeWindow,
	)

	return &Service{
		Config: config,
		Store:  store,
		Auth:   auth,
		Marker: marker,
	}, nil
}

// AuthenticateLecturer resolves the caller's lecturer id from headers and,
// when auth is enabled, checks the bearer token against redis.
func (s *Service) AuthenticateLecturer(r *http.Request) (string, error) {
	lecturer := r.Header.Get(s.Config.API.LecturerIDHeader)
	if lecturer == "" {
		return "", fmt.Errorf("missing %s header", s.Config.API.LecturerIDHeader)
	}

	if !s.Config.Server.EnableAuth {
		return lecturer, nil
	}

	authHeader := r.Header.Get(s.Auth.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := s.Auth.ValidateToken(r.Context(), lecturer, token); err != nil {
		return "", err
	}
	return lecturer, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// AttendanceURL is the link students open after scanning the QR code.
func (s *Service) AttendanceURL(sessionID string) string {
	base := strings.TrimSuffix(s.Config.Server.BaseURL, "/")
	return fmt.Sprintf("%s/attendance/%s", base, sessionID)
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
