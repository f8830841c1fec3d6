package ports

import "github.com/vncsmyrnk/awardvote/internal/core/domain"

type Catalog interface {
	Categories() []domain.Category
	Category(id string) (domain.Category, bool)
}
