package steam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"steameagle/internal/services"
	"steameagle/internal/textutil"
)

// Tags scrapes the user-defined tags shown on the store page of appID.
// storeLanguage is Steam's store language name (e.g. "english").
func (c *Client) Tags(ctx context.Context, appID int64, storeLanguage string) ([]string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for store rate limit: %w", err)
		}
	}

	endpoint, err := url.Parse(c.StorePageURL(appID))
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if lang := strings.TrimSpace(storeLanguage); lang != "" {
		params := url.Values{}
		params.Set("l", lang)
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(classifyTransportError(err), "download", "tags", "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "download", "tags",
			fmt.Sprintf("no store page for app %d", appID), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, services.Wrap(services.ErrExternalService, "download", "tags",
			fmt.Sprintf("store returned %d for app %d", resp.StatusCode, appID), nil)
	}

	tags, err := ParseTags(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "download", "tags", "parse store page", err)
	}
	return tags, nil
}

// ParseTags extracts the text of every a.app_tag element in document order.
// Whitespace is collapsed; empty and repeated tags are dropped.
func ParseTags(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "app_tag") {
			tags = append(tags, textContent(n))
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return textutil.NormalizeTags(tags), nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, field := range strings.Fields(attr.Val) {
			if field == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return b.String()
}
