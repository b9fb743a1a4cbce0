// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// CatalogStore retrieves and administers the funding product catalog.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, productID string) error
}

// ProfileStore persists and retrieves applicant profiles.
type ProfileStore interface {
	GetApplicantProfile(ctx context.Context, applicantID string) (*domain.Profile, error)
	SaveApplicantProfile(ctx context.Context, applicantID string, profile domain.Profile) error
}

// Extractor turns applicant free text into a sparse profile patch.
type Extractor interface {
	Extract(ctx context.Context, utterance string, profile domain.Profile) (domain.ProfilePatch, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
