package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/covxml/pkg/analysis"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; }
</style>
</head>
<body>
`

const htmlTail = `</body>
</html>
`

// HTMLRenderer renders the Markdown report to a standalone HTML page.
type HTMLRenderer struct {
	opts Options
	md   goldmark.Markdown
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	var source bytes.Buffer
	if err := writeMarkdown(&source, report, r.opts); err != nil {
		return fmt.Errorf("build markdown: %w", err)
	}

	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if _, err := fmt.Fprintf(bw, htmlHead, html.EscapeString(r.opts.Title)); err != nil {
		return err
	}
	if err := r.md.Convert(source.Bytes(), bw); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	_, err = bw.WriteString(htmlTail)
	return err
}
