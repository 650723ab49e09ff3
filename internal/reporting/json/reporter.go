// Package json renders an apply report as a single JSON document, suitable
// for piping into other tooling.
package json

import (
	"context"
	"encoding/json"
	"io"

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

type document struct {
	Summary summary  `json:"summary"`
	Results []result `json:"results"`
}

type summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

type result struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	ID       int    `json:"id,omitempty"`
	Details  string `json:"details,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (r *Reporter) Report(ctx context.Context, results []domain.ApplyResult) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "report cancelled")
	}

	doc := document{Results: make([]result, 0, len(results))}
	for _, res := range results {
		entry := result{
			Category: res.Category.String(),
			Name:     res.Name,
			Action:   string(res.Action),
			ID:       res.ID,
			Details:  res.Details,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		doc.Results = append(doc.Results, entry)

		switch res.Action {
		case domain.ActionCreated:
			doc.Summary.Created++
		case domain.ActionUpdated:
			doc.Summary.Updated++
		case domain.ActionSkipped:
			doc.Summary.Skipped++
		case domain.ActionDeleted:
			doc.Summary.Deleted++
		case domain.ActionFailed:
			doc.Summary.Failed++
		}
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode report")
	}
	return nil
}
