package json_test

import (
	"bytes"
	"context"
	gojson "encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebdruplab/semactl/internal/core/domain"
	jsonreport "github.com/ebdruplab/semactl/internal/reporting/json"
)

func TestReportProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	reporter := jsonreport.NewReporter(&buf)

	results := []domain.ApplyResult{
		{Category: domain.CategoryProject, Name: "web", Action: domain.ActionCreated, ID: 1},
		{Category: domain.CategoryKeys, Name: "deploy-key", Action: domain.ActionSkipped, ID: 2, Details: "exists"},
		{Category: domain.CategoryTemplates, Name: "broken", Action: domain.ActionFailed, Error: errors.New("boom")},
	}
	require.NoError(t, reporter.Report(context.Background(), results))

	var doc struct {
		Summary struct {
			Created int `json:"created"`
			Skipped int `json:"skipped"`
			Failed  int `json:"failed"`
		} `json:"summary"`
		Results []struct {
			Category string `json:"category"`
			Name     string `json:"name"`
			Action   string `json:"action"`
			ID       int    `json:"id"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 1, doc.Summary.Created)
	assert.Equal(t, 1, doc.Summary.Skipped)
	assert.Equal(t, 1, doc.Summary.Failed)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, "project", doc.Results[0].Category)
	assert.Equal(t, "CREATED", doc.Results[0].Action)
	assert.Equal(t, "boom", doc.Results[2].Error)
}

func TestReportEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	reporter := jsonreport.NewReporter(&buf)

	require.NoError(t, reporter.Report(context.Background(), nil))

	var doc map[string]any
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "summary")
	assert.Contains(t, doc, "results")
}
