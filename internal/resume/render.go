package resume

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/domain"
)

// Résumé styles. Each renders the same extracted data as a standalone HTML page.
const (
	TemplateClassic  = "classic"
	TemplateModern   = "modern"
	TemplateCreative = "creative"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join":    strings.Join,
	"contact": contactLines,
	"initial": initial,
}

var resumeTemplates = mustParseTemplates()

// TemplateNames lists the available styles, the default first.
func TemplateNames() []string {
	return []string{TemplateClassic, TemplateModern, TemplateCreative}
}

func mustParseTemplates() map[string]*template.Template {
	base := template.Must(template.New("layout").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/layout.html.tmpl"))

	out := make(map[string]*template.Template, len(TemplateNames()))
	for _, name := range TemplateNames() {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html.tmpl"))
	}
	return out
}

// Render lays out data with the named style. An empty name selects the classic style.
func Render(name string, data flows.ExtractedResume) (string, error) {
	if name == "" {
		name = TemplateClassic
	}
	t, ok := resumeTemplates[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("resume template %q: %w", name, domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "page", data); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	return buf.String(), nil
}

func contactLines(r flows.ExtractedResume) []string {
	var out []string
	for _, v := range []string{r.Email, r.Phone, r.LinkedIn} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
