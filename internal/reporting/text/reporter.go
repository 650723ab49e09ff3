// Package text renders an apply report as a colored, aligned table for
// terminals.
package text

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/ebdruplab/semactl/internal/core/domain"
	"github.com/ebdruplab/semactl/internal/core/ports"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

type Reporter struct {
	out io.Writer
}

var _ ports.Reporter = (*Reporter)(nil)

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

var (
	createdColor = color.New(color.FgGreen)
	updatedColor = color.New(color.FgYellow)
	deletedColor = color.New(color.FgRed)
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgCyan)
)

func (r *Reporter) Report(ctx context.Context, results []domain.ApplyResult) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "report cancelled")
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	counts := map[domain.ApplyAction]int{}
	for _, res := range results {
		counts[res.Action]++
		details := res.Details
		if res.Error != nil {
			details = res.Error.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			actionLabel(res.Action), res.Category, identifier(res), details)
	}
	if err := w.Flush(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to flush report")
	}

	fmt.Fprintf(r.out, "\n%d created, %d updated, %d skipped, %d deleted, %d failed\n",
		counts[domain.ActionCreated], counts[domain.ActionUpdated],
		counts[domain.ActionSkipped], counts[domain.ActionDeleted],
		counts[domain.ActionFailed])
	return nil
}

func identifier(res domain.ApplyResult) string {
	if res.ID > 0 {
		return fmt.Sprintf("%s (id %d)", res.Name, res.ID)
	}
	return res.Name
}

func actionLabel(action domain.ApplyAction) string {
	switch action {
	case domain.ActionCreated:
		return createdColor.Sprint("[CREATED]")
	case domain.ActionUpdated:
		return updatedColor.Sprint("[UPDATED]")
	case domain.ActionDeleted:
		return deletedColor.Sprint("[DELETED]")
	case domain.ActionFailed:
		return failedColor.Sprint("[FAILED]")
	default:
		return skippedColor.Sprint("[OK]")
	}
}
