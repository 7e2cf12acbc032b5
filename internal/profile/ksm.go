package profile

import (
	"errors"

	ksm "github.com/keeper-security/secrets-manager-go/core"
)

// FromRecord builds a connection profile from a Keeper login record: the
// client id comes from the login field, the client secret from the
// password, and the environment id from the "Environment ID" custom field.
func FromRecord(record *ksm.Record) (p Profile, err error) {
	p.ClientID = record.GetFieldValueByType("login")
	p.ClientSecret = record.Password()
	p.EnvironmentID = CustomFieldValue(record, "Environment ID")

	if p.ClientID == "" || p.ClientSecret == "" || p.EnvironmentID == "" {
		err = errors.New("record is missing login, password or \"Environment ID\"")
	}
	return
}

// CustomFieldValue reads the first value of a custom field by label.
func CustomFieldValue(record *ksm.Record, label string) (result string) {
	var fields = record.GetCustomFieldsByLabel(label)
	if len(fields) == 0 {
		return
	}
	var av, ok = fields[0]["value"].([]any)
	if ok && len(av) > 0 && av[0] != nil {
		result, _ = av[0].(string)
	}
	return
}
