package providers

import (
	"context"

	"pathways-sync/internal/domain"
)

// PathwaySource yields a pathways export, from disk or from the Path Finder API.
type PathwaySource interface {
	Name() string
	Pathways(ctx context.Context) (domain.PathwayDocument, error)
}
