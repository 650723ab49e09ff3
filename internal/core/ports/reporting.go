package ports

import (
	"context"

	"github.com/ebdruplab/semactl/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, results []domain.ApplyResult) error
}
