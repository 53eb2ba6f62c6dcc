package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/specmatrix/internal/model"
)

const winnerMark = "★"

// Renderer writes reports to files and prints terminal summaries
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer printing to out (nil means stdout)
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// Printf writes a progress line to the renderer's output
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(Markdown(report)))
}

// RenderHTML writes the report as a standalone HTML page
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	data, err := HTML(report)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// RenderLLMMarkdown writes an already rendered narrative
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return writeFile(path, []byte(markdown))
}

// RenderSummary prints the matrix and highlights
func (r *Renderer) RenderSummary(report *model.Report) {
	rule := strings.Repeat("═", 59)
	fmt.Fprintf(r.out, "\n%s\n", rule)
	fmt.Fprintf(r.out, "  %s comparison (%d devices)\n", report.Category, len(report.Devices))
	fmt.Fprintf(r.out, "%s\n\n", rule)

	if len(report.Devices) == 0 {
		fmt.Fprintf(r.out, "  No devices selected.\n")
	} else {
		fmt.Fprintf(r.out, "%s\n", Table(report))
	}

	if len(report.Highlights) > 0 {
		fmt.Fprintf(r.out, "\nHighlights:\n")
		for _, h := range report.Highlights {
			fmt.Fprintf(r.out, "  • %s\n", h)
		}
	}
	if len(report.Missing) > 0 {
		fmt.Fprintf(r.out, "\n⚠️  Unknown devices: %s\n", strings.Join(report.Missing, ", "))
	}
	for _, e := range report.Errors {
		fmt.Fprintf(r.out, "✗ %s\n", e)
	}
	fmt.Fprintf(r.out, "\n")
}

// Table renders the matrix as a bordered terminal table. Winning cells carry
// a star.
func Table(report *model.Report) string {
	headers := []string{"Spec"}
	for _, d := range report.Devices {
		headers = append(headers, d.Name)
	}

	base := lipgloss.NewStyle().Padding(0, 1)
	groupStyle := base.Bold(true)
	winnerStyle := base.Bold(true).Foreground(lipgloss.Color("2"))

	groupRows := make(map[int]bool)
	winners := make(map[[2]int]bool)

	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	row := 0
	for _, g := range report.Matrix {
		t.Row(append([]string{g.Name}, make([]string, len(report.Devices))...)...)
		groupRows[row] = true
		row++
		for _, r := range g.Rows {
			cells := []string{"  " + r.Definition.Label}
			for i, c := range r.Cells {
				text := c.Display
				if c.Winner {
					text += " " + winnerMark
					winners[[2]int{row, i + 1}] = true
				}
				cells = append(cells, text)
			}
			t.Row(cells...)
			row++
		}
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow, groupRows[row]:
			return groupStyle
		case winners[[2]int{row, col}]:
			return winnerStyle
		default:
			return base
		}
	})
	return t.String()
}

// Markdown renders the report as a Markdown document
func Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Comparison\n\n", report.Category)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	if len(report.Devices) == 0 {
		b.WriteString("_No devices selected._\n")
	} else {
		b.WriteString("| Spec |")
		for _, d := range report.Devices {
			fmt.Fprintf(&b, " %s |", mdEscape(d.Name))
		}
		b.WriteString("\n|---|")
		for range report.Devices {
			b.WriteString("---|")
		}
		b.WriteString("\n")

		for _, g := range report.Matrix {
			fmt.Fprintf(&b, "| **%s** |%s\n", mdEscape(g.Name), strings.Repeat(" |", len(report.Devices)))
			for _, r := range g.Rows {
				fmt.Fprintf(&b, "| %s |", mdEscape(r.Definition.Label))
				for _, c := range r.Cells {
					if c.Winner {
						fmt.Fprintf(&b, " **%s** %s |", mdEscape(c.Display), winnerMark)
					} else {
						fmt.Fprintf(&b, " %s |", mdEscape(c.Display))
					}
				}
				b.WriteString("\n")
			}
		}
	}

	if len(report.Highlights) > 0 {
		b.WriteString("\n## Highlights\n\n")
		for _, h := range report.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	if len(report.Missing) > 0 {
		b.WriteString("\n## Unknown Devices\n\n")
		for _, slug := range report.Missing {
			fmt.Fprintf(&b, "- `%s`\n", slug)
		}
	}
	if len(report.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	return b.String()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML renders the report as a standalone page. Text is escaped by the
// html package; winning cells carry class="winner".
func HTML(report *model.Report) ([]byte, error) {
	title := fmt.Sprintf("%s Comparison", report.Category)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", "en"))
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), title))
	head.AppendChild(withText(element(atom.Style),
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}"+
			"th.group{text-align:left;background:#f4f4f4}td.winner{font-weight:bold;color:#1a7f37}"))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), title))

	if len(report.Devices) == 0 {
		body.AppendChild(withText(element(atom.P), "No devices selected."))
	} else {
		body.AppendChild(matrixTable(report))
	}

	appendList(body, "Highlights", report.Highlights)
	appendList(body, "Unknown Devices", report.Missing)
	appendList(body, "Errors", report.Errors)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func matrixTable(report *model.Report) *html.Node {
	tbl := element(atom.Table, attr("class", "matrix"))

	thead := element(atom.Thead)
	header := element(atom.Tr)
	header.AppendChild(withText(element(atom.Th), "Spec"))
	for _, d := range report.Devices {
		header.AppendChild(withText(element(atom.Th, attr("data-slug", d.Slug)), d.Name))
	}
	thead.AppendChild(header)
	tbl.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, g := range report.Matrix {
		groupRow := element(atom.Tr)
		groupRow.AppendChild(withText(element(atom.Th,
			attr("class", "group"),
			attr("colspan", fmt.Sprint(len(report.Devices)+1))), g.Name))
		tbody.AppendChild(groupRow)

		for _, r := range g.Rows {
			tr := element(atom.Tr, attr("data-key", r.Definition.Key))
			tr.AppendChild(withText(element(atom.Th), r.Definition.Label))
			for _, c := range r.Cells {
				td := element(atom.Td)
				if c.Winner {
					td.Attr = append(td.Attr, attr("class", "winner"))
				}
				tr.AppendChild(withText(td, c.Display))
			}
			tbody.AppendChild(tr)
		}
	}
	tbl.AppendChild(tbody)
	return tbl
}

func appendList(parent *html.Node, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	parent.AppendChild(withText(element(atom.H2), heading))
	ul := element(atom.Ul)
	for _, item := range items {
		ul.AppendChild(withText(element(atom.Li), item))
	}
	parent.AppendChild(ul)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
