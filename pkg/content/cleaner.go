package content

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	importLinePattern   = regexp.MustCompile(`(?m)^import\s+.*$`)
	componentOpenTag    = regexp.MustCompile(`<[A-Z][^>]*/?>`)
	componentCloseTag   = regexp.MustCompile(`</[A-Z][^>]*>`)
	expressionPattern   = regexp.MustCompile(`\{[^}]+\}`)
	fenceLangPattern    = regexp.MustCompile("```\\w+")
	frontMatterPattern  = regexp.MustCompile(`^---[\s\S]*?---`)
	htmlCommentPattern  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
	frontMatterTitle    = regexp.MustCompile(`^---[\s\S]*?title:\s*["']?([^"'\n]+)["']?[\s\S]*?---`)
	headingPattern      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	numericPrefixFilter = regexp.MustCompile(`^\d+-`)
)

// Clean strips MDX syntax from raw and returns plain text. An empty result means
// the document held nothing but markup.
func Clean(raw string) string {
	text := importLinePattern.ReplaceAllString(raw, "")
	text = componentOpenTag.ReplaceAllString(text, "")
	text = componentCloseTag.ReplaceAllString(text, "")
	text = expressionPattern.ReplaceAllString(text, "")
	text = fenceLangPattern.ReplaceAllString(text, "```")
	text = frontMatterPattern.ReplaceAllString(text, "")
	text = htmlCommentPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ExtractTitle looks for a front-matter title, then the first level-1 heading, and
// finally derives one from filename ("02-urdf_basics.mdx" -> "Urdf Basics").
func ExtractTitle(raw, filename string) string {
	if m := frontMatterTitle.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := headingPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = numericPrefixFilter.ReplaceAllString(name, "")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCase(name)
}

// titleCase upper-cases a letter that follows a non-letter and lower-cases the rest,
// so "ros2-nodes" becomes "Ros2-Nodes" and "ISAAC sim" becomes "Isaac Sim".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
