// Package catalog holds the consistency rules that keep product
// documents referentially sound: category references must resolve, and
// image fields only ever carry paths produced by completed uploads.
package catalog

import (
	"context"

	"github.com/spec-kit/catalog-service/internal/domain"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// CategoryChecker is the slice of the category repository the guard
// depends on.
type CategoryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Guard enforces cross-entity consistency for product writes.
type Guard struct {
	categories CategoryChecker
}

// NewGuard constructs the guard.
func NewGuard(categories CategoryChecker) *Guard {
	return &Guard{categories: categories}
}

// AssertCategoryExists rejects a product create/update whose category
// reference does not resolve. It runs before any write; a failure means
// nothing was persisted. The check is authoritative at the instant of
// the write that follows; a category deleted in between is an accepted,
// non-fatal inconsistency.
func (g *Guard) AssertCategoryExists(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return apperrors.NewValidationError("category id required", nil)
	}
	exists, err := g.categories.Exists(ctx, categoryID)
	if err != nil {
		return apperrors.NewUpstreamFailure(err)
	}
	if !exists {
		return apperrors.NewInvalidReference("invalid category", map[string]any{"category_id": categoryID})
	}
	return nil
}

// ResolveImageFields reconciles a product's image references with the
// outcome of this request's uploads. It performs no I/O: uploadedPrimary
// and uploadedGallery are paths the caller already obtained from the
// upload store. When no new primary was uploaded the existing path is
// carried over verbatim; when new gallery files were uploaded they
// replace the prior gallery wholesale, otherwise the prior gallery is
// kept. Caller-supplied body values never reach these fields.
func ResolveImageFields(existing *domain.Product, uploadedPrimary string, uploadedGallery []string) (string, []string) {
	image := uploadedPrimary
	var images []string

	if existing != nil {
		if image == "" {
			image = existing.Image
		}
		images = existing.Images
	}
	if len(uploadedGallery) > 0 {
		images = uploadedGallery
	}
	return image, images
}
