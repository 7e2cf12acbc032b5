package attrmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_PopulationTargets(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"population id allowed", "population.id", false},
		{"population name allowed", "population.name", false},
		{"arbitrary population attribute rejected", "population.region", true},
		{"bare population rejected", "population", true},
		{"population prefix rejected", "populations", true},
		{"unrelated target allowed", "name.given", false},
		{"empty target allowed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Mapping{Targets: map[string]string{"col": tt.target}}
			err := m.Validate()
			if tt.wantErr {
				var te *TargetError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, "col", te.Header)
				assert.Equal(t, tt.target, te.Target)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApply_ResolvesTargets(t *testing.T) {
	m := Mapping{Targets: map[string]string{
		"First Name": "name.given",
		"Mail":       "email",
		"Ignore":     "",
	}}
	headers := []string{"First Name", "Mail", "Ignore", "department"}
	row := map[string]string{
		"First Name": "Joe",
		"Mail":       "joe@example.com",
		"Ignore":     "dropped",
		"department": "ops",
	}

	flat := m.Apply(headers, row)

	assert.Equal(t, map[string]any{
		"name.given": "Joe",
		"email":      "joe@example.com",
		"department": "ops", // unmapped headers map to themselves
	}, flat)
}

func TestApply_SkipsEmptyValues(t *testing.T) {
	m := Mapping{}
	flat := m.Apply([]string{"username", "email"}, map[string]string{
		"username": "jbloggs",
		"email":    "",
	})

	assert.Equal(t, map[string]any{"username": "jbloggs"}, flat)
}

func TestApply_DiscardsSystemID(t *testing.T) {
	m := Mapping{Targets: map[string]string{"Identifier": "id"}}
	flat := m.Apply([]string{"Identifier", "id"}, map[string]string{
		"Identifier": "abc-123",
		"id":         "def-456",
	})

	assert.NotContains(t, flat, "id")
	assert.Empty(t, flat)
}

func TestApply_UIDAliasesUsername(t *testing.T) {
	m := Mapping{Targets: map[string]string{"login": "UID"}}
	flat := m.Apply([]string{"login"}, map[string]string{"login": "jbloggs"})

	assert.Equal(t, map[string]any{"username": "jbloggs"}, flat)
}

func TestApply_LastColumnWinsForSharedTarget(t *testing.T) {
	m := Mapping{Targets: map[string]string{
		"Email":      "email",
		"Work Email": "email",
	}}
	flat := m.Apply([]string{"Email", "Work Email"}, map[string]string{
		"Email":      "home@example.com",
		"Work Email": "work@example.com",
	})

	assert.Equal(t, map[string]any{"email": "work@example.com"}, flat)
}

func TestApply_EnabledCoercion(t *testing.T) {
	m := Mapping{Targets: map[string]string{"active": "enabled"}}
	for raw, want := range map[string]any{
		"TRUE":  true,
		"1":     true,
		"yes":   true,
		"Y":     true,
		"t":     true,
		"false": false,
		"0":     false,
		"no":    false,
		"n":     false,
		"F":     false,
		"maybe": "maybe", // unrecognized tokens pass through unchanged
	} {
		flat := m.Apply([]string{"active"}, map[string]string{"active": raw})
		assert.Equal(t, want, flat["enabled"], "input %q", raw)
	}
}

func TestParseEnabled_UnrecognizedToken(t *testing.T) {
	_, ok := ParseEnabled("maybe")
	assert.False(t, ok)
}
