// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/capstudio/captionforge/domain"
)

// Store defines the interface for generation history persistence.
type Store interface {
	// CreateGeneration records a finished generation.
	CreateGeneration(ctx context.Context, gen *domain.Generation) error
	// GetGeneration retrieves a generation by ID; nil when not found.
	GetGeneration(ctx context.Context, generationID string) (*domain.Generation, error)
	// ListGenerations returns the newest generations first.
	ListGenerations(ctx context.Context, limit int) ([]domain.Generation, error)

	// Lifecycle
	Close() error
}
