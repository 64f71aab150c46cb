package jsdom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// domNode is the JSON form of the page handed to the shim's load().
type domNode struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []domNode         `json:"children,omitempty"`
}

const textNode = "#text"

// buildTree parses markup and converts the <html> element into a domNode tree.
// Comments, the doctype and whitespace-only text are dropped.
func buildTree(html string) (*domNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	root := doc.Find("html").First()
	if root.Length() == 0 {
		return nil, errors.New("document has no html element")
	}
	node := convert(root)
	return &node, nil
}

func convert(s *goquery.Selection) domNode {
	node := domNode{Tag: goquery.NodeName(s)}
	for _, attr := range s.Nodes[0].Attr {
		if node.Attrs == nil {
			node.Attrs = make(map[string]string, len(s.Nodes[0].Attr))
		}
		node.Attrs[attr.Key] = attr.Val
	}

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == textNode:
			if text := child.Text(); strings.TrimSpace(text) != "" {
				node.Children = append(node.Children, domNode{Tag: textNode, Text: text})
			}
		case strings.HasPrefix(name, "#"):
		default:
			node.Children = append(node.Children, convert(child))
		}
	})
	return node
}
