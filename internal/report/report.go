// Package report splits interview feedback reports into sections and renders
// them as HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Headings the interviewer is asked to produce, in order.
var Expected = []string{
	"Overall Summary",
	"Strengths",
	"Areas for Improvement",
	"Sample Answers",
	"Final Recommendation",
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"` // markdown
}

type Report struct {
	Sections []Section `json:"sections"`
}

// Section returns the section with the given title, ignoring case.
func (r *Report) Section(title string) (Section, bool) {
	for _, s := range r.Sections {
		if strings.EqualFold(s.Title, title) {
			return s, true
		}
	}
	return Section{}, false
}

// Missing lists the expected headings the report does not have.
func (r *Report) Missing() []string {
	var out []string
	for _, title := range Expected {
		if _, ok := r.Section(title); !ok {
			out = append(out, title)
		}
	}
	return out
}

// Parse splits markdown at its top-level "##" headings. Text before the first
// heading becomes a section with an empty title. Unknown headings are kept in
// document order.
func Parse(markdown string) *Report {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	type mark struct {
		title      string
		start, end int // byte range of the heading line(s)
	}
	var marks []mark
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 || h.Lines().Len() == 0 {
			continue
		}
		start, end := headingRange(src, h)
		marks = append(marks, mark{title: headingText(src, h), start: start, end: end})
	}

	r := &Report{Sections: []Section{}}
	if len(marks) == 0 {
		if body := strings.TrimSpace(markdown); body != "" {
			r.Sections = append(r.Sections, Section{Body: body})
		}
		return r
	}

	if pre := strings.TrimSpace(string(src[:marks[0].start])); pre != "" {
		r.Sections = append(r.Sections, Section{Body: pre})
	}
	for i, m := range marks {
		stop := len(src)
		if i+1 < len(marks) {
			stop = marks[i+1].start
		}
		r.Sections = append(r.Sections, Section{
			Title: m.title,
			Body:  strings.TrimSpace(string(src[m.end:stop])),
		})
	}
	return r
}

// HTML renders markdown with GitHub-flavoured extensions. Raw HTML in the
// input is not passed through.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func headingText(src []byte, h *ast.Heading) string {
	var sb strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// headingRange finds the full source lines of h, including the "##" prefix of
// an ATX heading or the underline of a setext heading.
func headingRange(src []byte, h *ast.Heading) (int, int) {
	first := h.Lines().At(0)
	last := h.Lines().At(h.Lines().Len() - 1)

	start := bytes.LastIndexByte(src[:first.Start], '\n') + 1
	// Stop may or may not include the line's newline.
	end := lineEnd(src, max(last.Stop-1, last.Start))

	if !bytes.HasPrefix(bytes.TrimLeft(src[start:first.Start], " "), []byte("#")) {
		// setext: skip the underline
		end = lineEnd(src, end)
	}
	return start, end
}

func lineEnd(src []byte, from int) int {
	if from >= len(src) {
		return len(src)
	}
	i := bytes.IndexByte(src[from:], '\n')
	if i < 0 {
		return len(src)
	}
	return from + i + 1
}
