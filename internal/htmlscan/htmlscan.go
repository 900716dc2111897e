// Package htmlscan finds client-side redirects in HTML bodies:
// meta-refresh declarations and the trivial JavaScript location
// assignments interstitial pages use.
package htmlscan

import (
	"bytes"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// BodyLimit caps how much of a response body is read when scanning.
const BodyLimit = 512 * 1024

var jsRedirectRe = regexp.MustCompile(`(?i)(?:window\.|document\.)?location(?:\.href)?\s*=\s*['"]([^'"#]+)['"]`)

// IsHTML checks if a content-type indicates an HTML body.
func IsHTML(ct string) bool {
	return strings.Contains(ct, "text/html")
}

// Detect inspects the body for a meta refresh or a JS redirect and
// resolves the destination against base. Meta refresh wins when both
// are present, matching how browsers behave.
func Detect(body []byte, base *url.URL) (next *url.URL, via string, ok bool) {
	if target := metaRefreshTarget(body); target != "" {
		if u, err := url.Parse(target); err == nil {
			return base.ResolveReference(u), model.ViaMetaRefresh, true
		}
	}
	if m := jsRedirectRe.FindSubmatch(body); m != nil {
		if u, err := url.Parse(string(m[1])); err == nil {
			return base.ResolveReference(u), model.ViaJavaScript, true
		}
	}
	return nil, "", false
}

// ReadAndDetect reads from r up to BodyLimit and performs Detect.
func ReadAndDetect(r io.Reader, base *url.URL) (next *url.URL, via string, ok bool) {
	buf := make([]byte, BodyLimit)
	n, _ := io.ReadFull(io.LimitReader(r, BodyLimit), buf)
	return Detect(buf[:n], base)
}

// metaRefreshTarget extracts the url= portion of a
// <meta http-equiv="refresh" content="N; url=..."> tag.
func metaRefreshTarget(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var target string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		equiv, _ := sel.Attr("http-equiv")
		if !strings.EqualFold(equiv, "refresh") {
			return true
		}
		content, _ := sel.Attr("content")
		for _, part := range strings.Split(content, ";") {
			part = strings.TrimSpace(part)
			if len(part) >= 4 && strings.EqualFold(part[:4], "url=") {
				target = strings.Trim(part[4:], `'" `)
				return false
			}
		}
		return true
	})
	return target
}
