package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts anchor links and visible text from HTML content.
type Parser struct {
	// baseURL is the request URL of the page being parsed, used for
	// resolving relative links.
	baseURL *url.URL
}

// Page contains what the Parser extracted from one document.
type Page struct {
	// Links are absolute, fragment-stripped anchor targets in first-seen
	// document order, without duplicates.
	Links []string

	// Text is the visible text with every text node trimmed and joined by a
	// single space.
	Text string

	// Charset is the encoding the content was decoded from. Empty when the
	// content was parsed as-is.
	Charset string
}

// invisibleElements hold text that is never rendered.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// skippedSchemes are href prefixes that never name a crawlable page.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// NewParser creates a Parser resolving links against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses UTF-8 HTML content.
func (p *Parser) Parse(content io.Reader) (*Page, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	page := &Page{Links: make([]string, 0)}
	seen := make(map[string]struct{})
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if invisibleElements[n.Data] {
				return
			}
			if n.Data == "a" {
				p.addLink(n, page, seen)
			}
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(s)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	page.Text = text.String()

	return page, nil
}

// ParseBytes decodes content using contentType and any in-document charset
// declaration, then parses it.
func (p *Parser) ParseBytes(content []byte, contentType string) (*Page, error) {
	r, name := decodeContent(content, contentType)
	page, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	page.Charset = name
	return page, nil
}

func (p *Parser) addLink(n *html.Node, page *Page, seen map[string]struct{}) {
	href, ok := getAttr(n, "href")
	if !ok {
		return
	}
	link := p.resolveURL(href)
	if link == "" {
		return
	}
	if _, dup := seen[link]; dup {
		return
	}
	seen[link] = struct{}{}
	page.Links = append(page.Links, link)
}

// resolveURL resolves href against the base URL and strips the fragment.
// It returns "" for hrefs that can never name a page.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	lower := strings.ToLower(href)
	for _, prefix := range skippedSchemes {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return StripFragment(p.baseURL.ResolveReference(u))
}

// StripFragment returns u without its fragment.
func StripFragment(u *url.URL) string {
	clean := *u
	clean.Fragment = ""
	clean.RawFragment = ""
	return clean.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
