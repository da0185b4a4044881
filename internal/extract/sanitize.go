package extract

import (
	"regexp"
	"strings"
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// Clean strips what models like to wrap around a JSON payload: a code
// fence, prose before or after the object and typographic quotes.
func Clean(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) > 1 {
			lines = lines[1:]
			if last := strings.TrimSpace(lines[len(lines)-1]); strings.HasPrefix(last, "```") {
				lines = lines[:len(lines)-1]
			}
			s = strings.Join(lines, "\n")
		}
	}

	if match := jsonObject.FindString(s); match != "" {
		s = match
	}

	s = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'").Replace(s)
	return strings.TrimSpace(s)
}
