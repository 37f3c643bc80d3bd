package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/domain"
)

func sampleResume() flows.ExtractedResume {
	return flows.ExtractedResume{
		Name:     "ada Lovelace",
		Email:    "ada@example.com",
		LinkedIn: "linkedin.com/in/ada",
		Summary:  "Engineer <script>alert(1)</script>",
		Experience: []flows.Experience{{
			Role:    "Analyst",
			Company: "Analytical Engines",
			Date:    "1842 - 1843",
			Points:  []string{"Wrote the first program"},
		}},
		Education: []flows.Education{{Degree: "Mathematics", University: "Private tutoring", Date: "1830"}},
		Skills:    []string{"Go", "SQL"},
	}
}

func TestRenderTemplates(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{TemplateClassic, []string{`class="classic"`, "<h3>Summary</h3>", "ada@example.com | linkedin.com/in/ada", "Go, SQL"}},
		{TemplateModern, []string{`class="modern"`, "<h3>EXPERIENCE</h3>", `<span class="skill">Go</span>`}},
		{TemplateCreative, []string{`class="creative"`, `<div class="avatar">A</div>`, "<h3>Contact</h3>", "<li>SQL</li>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Render(tt.name, sampleResume())
			require.NoError(t, err)

			assert.Contains(t, html, "<title>ada Lovelace - Résumé</title>")
			assert.Contains(t, html, "<li>Wrote the first program</li>")
			assert.Contains(t, html, "Analytical Engines")
			assert.Contains(t, html, "Mathematics")
			assert.NotContains(t, html, "<script>")
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
		})
	}
}

func TestRenderDefaultsAndUnknown(t *testing.T) {
	html, err := Render("", flows.ExtractedResume{Name: "Jo"})
	require.NoError(t, err)
	assert.Contains(t, html, `class="classic"`)

	html, err = Render("Modern", flows.ExtractedResume{})
	require.NoError(t, err)
	assert.Contains(t, html, `class="modern"`)

	_, err = Render("fancy", flows.ExtractedResume{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "É", initial(" élodie"))
	assert.Empty(t, initial(""))
}
