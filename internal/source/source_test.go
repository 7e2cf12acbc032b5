package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_StripsBOMAndBlankRows(t *testing.T) {
	in := "\xEF\xBB\xBFusername,email\nalice,alice@example.com\n,\nbob,bob@example.com\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"username", "email"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "alice", table.Rows[0]["username"])
	assert.Equal(t, "bob@example.com", table.Rows[1]["email"])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	in := "username,email\nalice\nbob,bob@example.com,extra\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	_, hasEmail := table.Rows[0]["email"]
	assert.False(t, hasEmail, "short row leaves the column absent")
	assert.Equal(t, "bob@example.com", table.Rows[1]["email"], "cells beyond the header are dropped")
}

func TestReadLDIF_EntriesAndRepeatedAttributes(t *testing.T) {
	in := `version: 1
# people export
dn: uid=alice,ou=people,dc=example,dc=com
uid: alice
mail: alice@example.com
telephonenumber: 555-1234
telephonenumber: 555-9876
cn:: QWxpY2U=

dn: uid=bob,ou=people,dc=example,dc=com
uid: bob
givenname: Bob
`

	table, err := ReadLDIF(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"uid", "mail", "telephonenumber", "cn", "givenname"}, table.Headers)
	require.Len(t, table.Rows, 2)

	alice := table.Rows[0]
	assert.NotContains(t, alice, "dn")
	assert.Equal(t, "alice", alice["uid"])
	assert.Equal(t, `["555-1234","555-9876"]`, alice["telephonenumber"], "repeated attribute becomes a JSON array cell")
	assert.Equal(t, "Alice", alice["cn"], "base64 value decoded")

	bob := table.Rows[1]
	assert.Equal(t, "Bob", bob["givenname"])
	assert.NotContains(t, bob, "mail")
}

func TestReadLDIF_FoldedContinuationLines(t *testing.T) {
	in := "dn: uid=alice\nuid: alice\ndescription: first part \n second part\n"

	table, err := ReadLDIF(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "first part second part", table.Rows[0]["description"])
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"username", "email"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"alice", "alice@example.com"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"username", "email"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "alice", table.Rows[0]["username"])
}

func TestFromRows_RequiresHeader(t *testing.T) {
	_, err := FromRows(nil)
	assert.Error(t, err)
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	_, err := Open("users.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".parquet")
}
