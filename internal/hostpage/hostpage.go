// Package hostpage prepares the document the CLI injects resources into.
// A page is either a blank HTML5 shell, a rendered Markdown file or an
// existing HTML file opened in place.
package hostpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-fileloader/internal/fileutil"
)

// Sentinel errors for page preparation.
var (
	ErrUnsupportedPage = errors.New("unsupported host page")
	ErrRender          = errors.New("markdown rendering failed")
)

// DefaultTitle is used when Source.Title is empty.
const DefaultTitle = "fileloader"

// highlightStyle is the chroma style emitted for fenced code blocks.
const highlightStyle = "github"

// pageTemplate wraps the body in a complete HTML5 document. The base
// element makes relative resource paths resolve against BaseDir rather
// than the temp directory holding the page.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<base href="%s">
<title>%s</title>
%s</head>
<body>
%s
</body>
</html>`

// Source describes the page to prepare.
type Source struct {
	Path    string // .md, .markdown, .html, .htm or empty for a blank page
	Title   string
	BaseDir string // Directory relative resources resolve against (empty = CWD)
}

// Page is a prepared host document.
type Page struct {
	URL     string
	cleanup func()
}

// Close removes the generated page file, if any. It is safe to call twice.
func (p *Page) Close() {
	if p != nil && p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
}

// Builder renders host pages.
type Builder struct {
	md  goldmark.Markdown
	css string
}

// NewBuilder creates a Builder with GFM and chroma highlighting.
func NewBuilder() *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // Styles come from the generated stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Builder{md: md, css: highlightCSS()}
}

// highlightCSS returns the stylesheet for chroma classes, or "" if the
// style cannot be written.
func highlightCSS() string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return "<style>\n" + buf.String() + "</style>\n"
}

// Build prepares the page described by src.
func (b *Builder) Build(ctx context.Context, src Source) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch ext := fileutil.Extension(src.Path); {
	case src.Path == "":
		return b.write(src, "")
	case ext == "html" || ext == "htm":
		if !fileutil.FileExists(src.Path) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrUnsupportedPage, src.Path)
		}
		u, err := fileutil.FileURL(src.Path)
		if err != nil {
			return nil, err
		}
		return &Page{URL: u}, nil
	case ext == "md" || ext == "markdown":
		content, err := os.ReadFile(src.Path) // #nosec G304 -- page path is user-provided
		if err != nil {
			return nil, fmt.Errorf("reading page source: %w", err)
		}
		body, err := b.render(ctx, content)
		if err != nil {
			return nil, err
		}
		return b.write(src, body)
	default:
		return nil, fmt.Errorf("%w: %s (want .md or .html)", ErrUnsupportedPage, src.Path)
	}
}

// render converts Markdown to an HTML fragment. Goldmark has no context
// support, so cancellation is observed with a goroutine and select.
func (b *Builder) render(ctx context.Context, content []byte) (string, error) {
	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := b.md.Convert(content, &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func (b *Builder) write(src Source, body string) (*Page, error) {
	base, err := baseHref(src.BaseDir)
	if err != nil {
		return nil, err
	}
	title := src.Title
	if title == "" {
		title = DefaultTitle
	}

	css := ""
	if body != "" {
		css = b.css
	}
	doc := fmt.Sprintf(pageTemplate, html.EscapeString(base), html.EscapeString(title), css, body)

	path, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	u, err := fileutil.FileURL(path)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &Page{URL: u, cleanup: cleanup}, nil
}

// baseHref returns the file:// URL of dir with a trailing slash.
func baseHref(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	u, err := fileutil.FileURL(filepath.Clean(dir))
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, nil
}
