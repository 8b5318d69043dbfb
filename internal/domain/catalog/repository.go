package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
)

// ErrArticleNotFound is returned when an article lookup fails
var ErrArticleNotFound = shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")

// ArticleRepository resolves article snapshots, including their group and line.
type ArticleRepository interface {
	// FindByID returns ErrArticleNotFound when the article does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Article, error)
}
