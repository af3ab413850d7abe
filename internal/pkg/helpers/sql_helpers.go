package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a literal search term into an ILIKE substring pattern.
// LIKE wildcards in the term are escaped so they match themselves.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
