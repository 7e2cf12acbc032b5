package attrmap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// commonTargets maps well-known header spellings to attribute paths.
var commonTargets = map[string]string{
	"first name": "name.given", "first_name": "name.given", "firstname": "name.given", "given": "name.given",
	"last name": "name.family", "last_name": "name.family", "lastname": "name.family", "family": "name.family",
	"email": "email", "e-mail": "email",
	"username": "username", "user name": "username", "user": "username",
	"phone": "phoneNumbers", "phone number": "phoneNumbers", "phone_number": "phoneNumbers", "phonenumber": "phoneNumbers",
	"population": "population.id", "population.name": "population.id",
	"id": "id", "uuid": "id",
	"street": "address.street", "address.street": "address.street",
	"city": "address.city", "state": "address.region", "zip": "address.postalCode",
	"postalcode": "address.postalCode", "country": "address.country",
}

// SuggestTarget proposes an attribute path for a single header. The result
// is deterministic: a case-insensitive, diacritic-insensitive lookup against
// the common spellings, then dot-notation heuristics, then the lowercased
// header with separators as dots.
func SuggestTarget(header string) string {
	s := strings.TrimSpace(header)
	if s == "" {
		return header
	}
	low := stripDiacritics(strings.ToLower(s))
	if target, ok := commonTargets[low]; ok {
		return target
	}
	key := strings.ReplaceAll(low, " ", ".")
	key = strings.ReplaceAll(key, "_", ".")
	switch key {
	case "first", "given":
		return "name.given"
	case "last", "family", "surname":
		return "name.family"
	}
	if strings.HasPrefix(key, "name.") {
		return key
	}
	return key
}

// Suggest proposes targets for a whole header list. Advisory only: callers
// merge these under any explicit user mapping, never over it.
func Suggest(headers []string) map[string]string {
	targets := make(map[string]string, len(headers))
	for _, h := range headers {
		targets[h] = SuggestTarget(h)
	}
	return targets
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
