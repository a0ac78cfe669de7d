// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fleet

import (
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/normalize"
)

// siteCanon maps site name variants seen in page headings to canonical
// site identifiers.
var siteCanon = map[string]string{
	"afrl":      "afrl",
	"air force": "afrl",
	"navy":      "navy",
	"navydsrc":  "navy",
	"erdc":      "erdc",
	"arl":       "arl",
	"army":      "arl",
}

// siteDomain maps canonical site identifiers to their login domains.
var siteDomain = map[string]string{
	"afrl": "afrl.hpc.mil",
	"navy": "navydsrc.hpc.mil",
	"erdc": "erdc.hpc.mil",
	"arl":  "arl.hpc.mil",
}

var (
	altCurrently = regexp.MustCompile(`(?i)^\s*(.*?)\s+is\s+currently\s+([A-Za-z ]+?)\.?\s*$`)
	altIs        = regexp.MustCompile(`(?i)^\s*(.*?)\s+is\s+(.+)$`)
	srcStatus    = regexp.MustCompile(`(?i)(?:^|[^a-z])(up|down|degraded?|maint(?:enance)?)\b`)
)

// ParsePage extracts system observations from a status page. Images
// that yield neither a system name nor a status are skipped; a page
// with no status images at all is an error because it means the page
// layout changed.
func ParsePage(r io.Reader, sourceURL string) ([]model.SystemStatus, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing status page: %w", err)
	}

	imgs := findStatusImages(root)
	if len(imgs) == 0 {
		return nil, fmt.Errorf("no status images found, page layout may have changed")
	}

	now := time.Now().UTC()
	systems := make([]model.SystemStatus, 0, len(imgs))
	for _, img := range imgs {
		alt := strings.TrimSpace(attr(img, "alt"))
		src := strings.TrimSpace(attr(img, "src"))

		name, statusText := parseAlt(alt)
		status := normalize.SystemStatusFromText(statusText)
		if status == model.StatusUnknown {
			status = statusFromSrc(src)
		}
		if name == "" {
			name = systemNameFromContext(img)
		}
		if name == "" {
			continue
		}

		site := siteFromContext(img)
		sys := model.SystemStatus{
			System:      name,
			DisplayName: normalize.DisplayName(name),
			Site:        site,
			Scheduler:   schedulerFromContext(img, name),
			Status:      status,
			RawStatus:   alt,
			SourceURL:   sourceURL,
			ObservedAt:  now,
		}
		sys.LoginHost = loginHost(sys.Slug(), site)
		systems = append(systems, sys)
	}
	return systems, nil
}

// parseAlt splits alt text like "Narwhal is currently Up." into the
// system name and the status phrase.
func parseAlt(alt string) (name, status string) {
	if alt == "" {
		return "", ""
	}
	if m := altCurrently.FindStringSubmatch(alt); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := altIs.FindStringSubmatch(alt); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", ""
}

// statusFromSrc guesses a status from the image file name, the
// fallback when alt text is missing or unhelpful.
func statusFromSrc(src string) model.OperationalStatus {
	base := strings.ToLower(path.Base(src))
	if m := srcStatus.FindStringSubmatch(base); m != nil {
		return normalize.SystemStatusFromText(m[1])
	}
	return model.StatusUnknown
}

func loginHost(slug, site string) string {
	if slug == "" || site == "" {
		return ""
	}
	domain, ok := siteDomain[site]
	if !ok {
		return ""
	}
	return slug + "." + domain
}

// findStatusImages returns img elements whose class mentions "status".
func findStatusImages(root *html.Node) []*html.Node {
	var imgs []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" &&
			strings.Contains(strings.ToLower(attr(n, "class")), "status") {
			imgs = append(imgs, n)
		}
	})
	return imgs
}

// siteFromContext looks for a site name in the nearest heading, then
// in ancestor text blocks.
func siteFromContext(img *html.Node) string {
	if heading := nearestHeadingText(img); heading != "" {
		if site := matchSite(heading); site != "" {
			return site
		}
	}
	cur := img
	for i := 0; i < 3 && cur.Parent != nil; i++ {
		cur = cur.Parent
		if site := matchSite(textContent(cur)); site != "" {
			return site
		}
	}
	return ""
}

func matchSite(text string) string {
	t := strings.ToLower(text)
	for key, canon := range siteCanon {
		if strings.Contains(t, key) {
			return canon
		}
	}
	return ""
}

// schedulerFromContext scans ancestor anchors for scheduler cues,
// preferring anchors that mention the system by name.
func schedulerFromContext(img *html.Node, system string) string {
	slug := strings.ToLower(strings.TrimSpace(system))

	cur := img
	for i := 0; i < 5 && cur.Parent != nil; i++ {
		cur = cur.Parent
		var preferred, any string
		walk(cur, func(n *html.Node) {
			if n.Type != html.ElementNode || n.Data != "a" {
				return
			}
			blob := strings.ToLower(textContent(n) + " " + attr(n, "href"))
			s := schedulerIn(blob)
			if s == "" {
				return
			}
			// Anchors naming the system win over generic ones.
			if slug != "" && strings.Contains(blob, slug) && preferred == "" {
				preferred = s
			}
			if any == "" {
				any = s
			}
		})
		if preferred != "" {
			return preferred
		}
		if any != "" {
			return any
		}
	}

	// Last resort: free text around the image.
	cur = img
	var blob strings.Builder
	for i := 0; i < 4 && cur.Parent != nil; i++ {
		cur = cur.Parent
		blob.WriteString(strings.ToLower(textContent(cur)))
		blob.WriteString(" ")
	}
	return schedulerIn(blob.String())
}

func schedulerIn(text string) string {
	switch {
	case strings.Contains(text, "slurm"):
		return "SLURM"
	case strings.Contains(text, "pbs"):
		return "PBS"
	default:
		return ""
	}
}

// systemNameFromContext derives a system name from the nearest heading
// when alt text carried none. Trailing "status ..." noise is dropped.
func systemNameFromContext(img *html.Node) string {
	heading := nearestHeadingText(img)
	if heading == "" {
		return ""
	}
	if i := strings.Index(strings.ToLower(heading), "status"); i >= 0 {
		heading = heading[:i]
	}
	return strings.Trim(heading, " :-")
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "strong": true,
}

// nearestHeadingText climbs up to six ancestors and returns the first
// heading text found in their subtrees.
func nearestHeadingText(n *html.Node) string {
	cur := n
	for i := 0; i < 6 && cur.Parent != nil; i++ {
		cur = cur.Parent
		var text string
		walk(cur, func(node *html.Node) {
			if text != "" {
				return
			}
			if node.Type == html.ElementNode && headingTags[node.Data] {
				if t := strings.TrimSpace(textContent(node)); t != "" {
					text = t
				}
			}
		})
		if text != "" {
			return text
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
