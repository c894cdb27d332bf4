package learning

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// NameParts is a full name split into its components.
type NameParts struct {
	First  string
	Middle string
	Last   string
}

// ParseFullName splits a full name on whitespace: one token is a first name,
// two are first + last, three or more put everything between the first and last
// token into the middle name.
func ParseFullName(fullName string) NameParts {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{First: tokens[0]}
	case 2:
		return NameParts{First: tokens[0], Last: tokens[1]}
	default:
		return NameParts{
			First:  tokens[0],
			Middle: strings.Join(tokens[1:len(tokens)-1], " "),
			Last:   tokens[len(tokens)-1],
		}
	}
}

// confirmedKey derives the deterministic fact-cache key for a pangulo/member
// pair. FNV-1a over the normalized names; a content hash for lookup, not a
// security primitive.
func confirmedKey(panguloName, memberName string) string {
	h := fnv.New32a()
	h.Write([]byte(normalizeName(panguloName)))
	h.Write([]byte{'|'})
	h.Write([]byte(normalizeName(memberName)))
	return fmt.Sprintf("%08x", h.Sum32())
}

// normalizeName lower-cases and collapses internal whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
