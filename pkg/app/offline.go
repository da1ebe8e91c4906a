package app

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// OfflineService serves a locally loaded schema to every identity and skips
// registration.
type OfflineService struct {
	Schema schema.FormSchema
	Logger *slog.Logger
}

// RegisterIdentity only logs the identity.
func (s OfflineService) RegisterIdentity(_ context.Context, id identity.Identity) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("offline register", "rollNumber", id.RollNumber)
	return nil
}

// FetchForm returns the local schema.
func (s OfflineService) FetchForm(_ context.Context, _ string) (schema.FormSchema, error) {
	return s.Schema, nil
}
