package catalog

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

// Metadata extraction is best-effort by design: a file that yields neither a
// title nor a description still produces an entry, with the filename as title
// and an empty description.

var (
	titleRe       = regexp.MustCompile(`^#\s+(.+)$`)
	descriptionRe = regexp.MustCompile(`^>\s+(.+)$`)
)

// patternMatter is the optional YAML frontmatter a pattern file may carry.
// When present, its fields take precedence over the extracted heading and
// blockquote.
type patternMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ExtractMetadata returns the text of the first level-1 heading and the first
// blockquote line of a markdown document. Either result may be empty; callers
// apply their own fallbacks.
func ExtractMetadata(text string) (title, description string) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if title == "" {
			if m := titleRe.FindStringSubmatch(line); m != nil {
				title = strings.TrimSpace(m[1])
			}
		}
		if description == "" {
			if m := descriptionRe.FindStringSubmatch(line); m != nil {
				description = strings.TrimSpace(m[1])
			}
		}
		if title != "" && description != "" {
			break
		}
	}

	return title, description
}

// parseMetadata combines frontmatter and line extraction for one file.
func parseMetadata(content []byte) (title, description string) {
	var matter patternMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
	if err != nil {
		// Malformed frontmatter is not fatal; fall back to the raw text.
		body = content
		matter = patternMatter{}
	}

	title, description = ExtractMetadata(string(body))
	if matter.Title != "" {
		title = matter.Title
	}
	if matter.Description != "" {
		description = matter.Description
	}
	return title, description
}
