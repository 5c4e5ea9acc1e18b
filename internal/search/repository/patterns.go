package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters in user input before it is
// embedded in a pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// prefixPatterns turns spelling variants into escaped prefix ILIKE patterns.
func prefixPatterns(variants []string) []string {
	patterns := make([]string, 0, len(variants))
	for _, v := range variants {
		if v == "" {
			continue
		}
		patterns = append(patterns, escapeLike(v)+"%")
	}
	return patterns
}
