// Package dom adapts a parsed HTML snapshot to the lookup interface used by
// the transaction scanner. Selector matching is done by goquery/cascadia.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// Document is a parsed page snapshot.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML snapshot. contentType is used as a charset hint; pass
// "" to let the decoder sniff <meta charset> and fall back to UTF-8.
func Parse(r io.Reader, contentType string) (*Document, error) {
	ur, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(ur)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Title returns the trimmed <title> text, if any.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("head title").First().Text())
}

// FindAllIn implements scrape.TreeQuery. Invalid selectors are reported as
// errors here, unlike Find, because an unusable scope means nothing can be
// scanned.
func (d *Document) FindAllIn(scope, sel string) ([]scrape.Fragment, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(sel) == "" {
		return nil, errors.New("empty selector")
	}
	if _, err := cascadia.Compile(scope); err != nil {
		return nil, fmt.Errorf("scope selector %q: %w", scope, err)
	}
	if _, err := cascadia.Compile(sel); err != nil {
		return nil, fmt.Errorf("row selector %q: %w", sel, err)
	}
	matches := d.doc.Find(scope).Find(sel)
	out := make([]scrape.Fragment, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out, nil
}

// FindNextSiblingMatching implements scrape.TreeQuery.
func (d *Document) FindNextSiblingMatching(f scrape.Fragment, shapes []string) scrape.Fragment {
	e, ok := f.(element)
	if !ok {
		return nil
	}
	next := e.sel.Next()
	if next.Length() == 0 {
		return nil
	}
	for _, shape := range shapes {
		if next.Is(shape) {
			return element{sel: next}
		}
	}
	return nil
}

// Strip removes every element matching sel inside scope and reports how
// many were removed. Running it again on the same document removes nothing.
func (d *Document) Strip(scope, sel string) int {
	matches := d.doc.Find(scope).Find(sel)
	n := matches.Length()
	matches.Remove()
	return n
}

type element struct {
	sel *goquery.Selection
}

// Find returns the first descendant matching sel. An invalid selector
// matches nothing.
func (e element) Find(sel string) scrape.Fragment {
	m := e.sel.Find(sel).First()
	if m.Length() == 0 {
		return nil
	}
	return element{sel: m}
}

func (e element) Text() string {
	return InnerText(e.sel.Get(0))
}
