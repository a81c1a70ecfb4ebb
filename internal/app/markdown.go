package app

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	rendererMu       sync.Mutex
	renderersByWidth = map[int]*glamour.TermRenderer{}
)

func renderMarkdown(input string, width int) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := getRenderer(width)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	out = strings.TrimRight(out, "\n")
	out = xansi.Hardwrap(out, width, true)
	return strings.TrimRight(out, "\n")
}

// genotypeMarkdown wraps a genotype document in a fenced block. Valid JSON is
// re-indented so compact server output reads the same as indented output.
func genotypeMarkdown(genotype string) string {
	body := strings.TrimSpace(genotype)
	lang := ""
	if json.Valid([]byte(body)) {
		lang = "json"
		var value any
		if err := json.Unmarshal([]byte(body), &value); err == nil {
			if pretty, err := json.MarshalIndent(value, "", "  "); err == nil {
				body = string(pretty)
			}
		}
	}
	body = strings.ReplaceAll(body, "```", "` ` `")
	return "```" + lang + "\n" + body + "\n```"
}

func renderGenotype(genotype string, width int) string {
	if strings.TrimSpace(genotype) == "" {
		return ""
	}
	return renderMarkdown(genotypeMarkdown(genotype), width)
}

func getRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if renderer, ok := renderersByWidth[width]; ok && renderer != nil {
		return renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleConfig()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderersByWidth[width] = r
	return r
}

func buildStyleConfig() glamouransi.StyleConfig {
	base := styles.DarkStyleConfig
	// The panel frame owns spacing, not the document prefix and margins.
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	base.CodeBlock.Margin = &zero
	return base
}
