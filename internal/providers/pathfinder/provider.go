package pathfinder

import (
	"context"
	"fmt"
	"os"

	"pathways-sync/internal/domain"
)

// Provider adapts the client into providers.PathwaySource.
type Provider struct {
	C *Client
	// SaveTo, when set, receives the raw export before it is parsed.
	SaveTo string
}

func (p Provider) Name() string { return p.C.BaseURL + topicsPath }

func (p Provider) Pathways(ctx context.Context) (domain.PathwayDocument, error) {
	body, err := p.C.FetchTopics(ctx)
	if err != nil {
		return domain.PathwayDocument{}, err
	}

	if p.SaveTo != "" {
		if err := os.WriteFile(p.SaveTo, body, 0o644); err != nil {
			return domain.PathwayDocument{}, fmt.Errorf("pathfinder: save export: %w", err)
		}
		p.C.logger().Info("saved export", "path", p.SaveTo, "bytes", len(body))
	}

	doc, err := domain.ParsePathways(body)
	if err != nil {
		return domain.PathwayDocument{}, fmt.Errorf("pathfinder: %w", err)
	}
	return doc, nil
}
