// Package catalog loads the static list of award categories and their
// nominees. The default list is embedded in the binary; a JSON file with the
// same shape can replace it at startup.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

//go:embed categories.json
var defaultCategories []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type nomineeJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type categoryJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Nominados   []nomineeJSON `json:"nominados"`
}

// Catalog is an ordered, read-only set of categories.
type Catalog struct {
	categories []domain.Category
	byID       map[string]int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCategories)
}

// Load reads the catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var raw []categoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		categories: make([]domain.Category, 0, len(raw)),
		byID:       make(map[string]int, len(raw)),
	}
	for i, rc := range raw {
		if rc.ID == "" {
			return nil, fmt.Errorf("%w: category at position %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[rc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, rc.ID)
		}
		if len(rc.Nominados) == 0 {
			return nil, fmt.Errorf("%w: category %q has no nominees", ErrInvalidCatalog, rc.ID)
		}

		category := domain.Category{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
			Image:       rc.Image,
			Nominees:    make([]domain.Nominee, 0, len(rc.Nominados)),
		}
		seen := make(map[string]bool, len(rc.Nominados))
		for j, rn := range rc.Nominados {
			if rn.ID == "" {
				return nil, fmt.Errorf("%w: nominee at position %d of %q has no id", ErrInvalidCatalog, j, rc.ID)
			}
			if seen[rn.ID] {
				return nil, fmt.Errorf("%w: duplicate nominee id %q in %q", ErrInvalidCatalog, rn.ID, rc.ID)
			}
			seen[rn.ID] = true
			category.Nominees = append(category.Nominees, domain.Nominee{ID: rn.ID, Name: rn.Name, Image: rn.Image})
		}

		c.byID[rc.ID] = len(c.categories)
		c.categories = append(c.categories, category)
	}
	return c, nil
}

// Categories returns the categories in catalog order. Callers must not modify
// the returned slice.
func (c *Catalog) Categories() []domain.Category {
	return c.categories
}

func (c *Catalog) Category(id string) (domain.Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Category{}, false
	}
	return c.categories[i], true
}
