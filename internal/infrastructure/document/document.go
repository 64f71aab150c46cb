// Package document implements port.Page over a parsed HTML tree.
// It lets the CLI apply preferences to a static page and print the result.
package document

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/logging"
)

// Document is an HTML page held in memory.
type Document struct {
	doc *goquery.Document
}

var _ port.Page = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

// Body implements port.Page.
func (d *Document) Body() port.Element {
	return wrap(d.doc.Find("body").First())
}

// Root implements port.Page.
func (d *Document) Root() port.Element {
	return wrap(d.doc.Find("html").First())
}

// ElementByID implements port.Page.
// Ids are matched literally, so ids that are not valid CSS identifiers still resolve.
func (d *Document) ElementByID(id string) (port.Element, bool) {
	if id == "" {
		return nil, false
	}
	sel := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return wrap(sel), true
}

// QueryAll implements port.Page. An invalid selector matches nothing.
func (d *Document) QueryAll(selector string) []port.Element {
	sel := d.doc.Find(selector)
	out := make([]port.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, wrap(s))
	})
	return out
}

// Render serializes the current document.
func (d *Document) Render() (string, error) {
	html, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return html, nil
}

// Write renders the document into w.
func (d *Document) Write(ctx context.Context, w io.Writer) error {
	html, err := d.Render()
	if err != nil {
		return err
	}
	n, err := io.WriteString(w, html)
	if err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	logging.FromContext(ctx).Debug().Int("bytes", n).Msg("document written")
	return nil
}
