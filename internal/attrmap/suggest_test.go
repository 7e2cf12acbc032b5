package attrmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTarget_CommonSpellings(t *testing.T) {
	tests := map[string]string{
		"First Name": "name.given",
		"first_name": "name.given",
		"FIRSTNAME":  "name.given",
		"Given":      "name.given",
		"Last Name":  "name.family",
		"surname":    "name.family",
		"E-Mail":     "email",
		"User Name":  "username",
		"Phone":      "phoneNumbers",
		"Population": "population.id",
		"UUID":       "id",
		"Street":     "address.street",
		"Zip":        "address.postalCode",
		"State":      "address.region",
	}
	for header, want := range tests {
		assert.Equal(t, want, SuggestTarget(header), "header %q", header)
	}

	// "uid" is not in the dictionary; it falls through unchanged and Apply
	// treats it as the username alias.
	assert.Equal(t, "uid", SuggestTarget("uid"))
}

func TestSuggestTarget_FallbackDotNotation(t *testing.T) {
	assert.Equal(t, "cost.center", SuggestTarget("Cost Center"))
	assert.Equal(t, "name.middle", SuggestTarget("name.middle"))
	assert.Equal(t, "department", SuggestTarget("department"))
}

func TestSuggestTarget_StripsDiacritics(t *testing.T) {
	assert.Equal(t, "email", SuggestTarget("Émail"))
}

func TestSuggest_IsDeterministic(t *testing.T) {
	headers := []string{"First Name", "Last Name", "Email", "Population"}
	first := Suggest(headers)
	second := Suggest(headers)
	assert.Equal(t, first, second)
	assert.Equal(t, "name.given", first["First Name"])
}
