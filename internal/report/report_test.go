package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/report"
)

const sample = `Candidate: Jane

## Overall Summary
Solid fundamentals.

## **Strengths**
- Clear communication
- Good trade-offs

### Detail
Nested headings stay in their section.

## Culture Fit
Unknown headings are kept.

Final Recommendation
--------------------
Hire.
`

func TestParseSplitsTopLevelSections(t *testing.T) {
	r := report.Parse(sample)

	var titles []string
	for _, s := range r.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"", "Overall Summary", "Strengths", "Culture Fit", "Final Recommendation"}, titles)

	assert.Equal(t, "Candidate: Jane", r.Sections[0].Body)

	strengths, ok := r.Section("strengths")
	require.True(t, ok)
	assert.Contains(t, strengths.Body, "- Clear communication")
	assert.Contains(t, strengths.Body, "### Detail")

	final, ok := r.Section("Final Recommendation")
	require.True(t, ok)
	assert.Equal(t, "Hire.", final.Body)

	assert.Equal(t, []string{"Areas for Improvement", "Sample Answers"}, r.Missing())
}

func TestParseWithoutHeadings(t *testing.T) {
	r := report.Parse("  Just a paragraph.  ")
	require.Len(t, r.Sections, 1)
	assert.Equal(t, "", r.Sections[0].Title)
	assert.Equal(t, "Just a paragraph.", r.Sections[0].Body)

	assert.Empty(t, report.Parse("").Sections)
}

func TestHTML(t *testing.T) {
	html, err := report.HTML("## Strengths\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>Strengths</h2>")
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "<script>")
}
