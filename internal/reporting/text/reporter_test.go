package text_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebdruplab/semactl/internal/core/domain"
	"github.com/ebdruplab/semactl/internal/reporting/text"
)

func TestReportRendersRowsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	reporter := text.NewReporter(&buf)

	results := []domain.ApplyResult{
		{Category: domain.CategoryProject, Name: "web", Action: domain.ActionCreated, ID: 1},
		{Category: domain.CategoryKeys, Name: "deploy-key", Action: domain.ActionSkipped, ID: 2, Details: "exists"},
		{Category: domain.CategoryTemplates, Name: "deploy-web", Action: domain.ActionUpdated, ID: 5},
		{Category: domain.CategorySchedules, Name: "stray", Action: domain.ActionDeleted, ID: 9, Details: "pruned"},
		{Category: domain.CategoryIntegrations, Name: "hook", Action: domain.ActionFailed, Error: errors.New("boom")},
	}
	require.NoError(t, reporter.Report(context.Background(), results))

	out := buf.String()
	assert.Contains(t, out, "[CREATED]")
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, "[UPDATED]")
	assert.Contains(t, out, "[DELETED]")
	assert.Contains(t, out, "[FAILED]")
	assert.Contains(t, out, "web (id 1)")
	assert.Contains(t, out, "exists")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "1 created, 1 updated, 1 skipped, 1 deleted, 1 failed")
}

func TestReportEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	reporter := text.NewReporter(&buf)

	require.NoError(t, reporter.Report(context.Background(), nil))
	assert.Contains(t, buf.String(), "0 created, 0 updated, 0 skipped, 0 deleted, 0 failed")
}

func TestReportCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := text.NewReporter(&buf).Report(ctx, nil)
	assert.Error(t, err)
}
