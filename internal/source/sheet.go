package source

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// ReadSheet fetches a Google spreadsheet using service account JWT
// credentials and parses it like any other table. An empty readRange means
// the whole first sheet.
func ReadSheet(ctx context.Context, credentials []byte, spreadsheetId string, readRange string) (result *Table, err error) {
	params := google.CredentialsParams{
		Scopes: []string{sheets.SpreadsheetsReadonlyScope},
	}
	var cred *google.Credentials
	if cred, err = google.CredentialsFromJSONWithParams(ctx, credentials, params); err != nil {
		return
	}
	var svc *sheets.Service
	if svc, err = sheets.NewService(ctx, option.WithCredentials(cred)); err != nil {
		return
	}

	if readRange == "" {
		var meta *sheets.Spreadsheet
		if meta, err = svc.Spreadsheets.Get(spreadsheetId).Context(ctx).Do(); err != nil {
			return
		}
		if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
			err = fmt.Errorf("spreadsheet %s has no sheets", spreadsheetId)
			return
		}
		readRange = meta.Sheets[0].Properties.Title
	}

	var values *sheets.ValueRange
	if values, err = svc.Spreadsheets.Values.Get(spreadsheetId, readRange).Context(ctx).Do(); err != nil {
		return
	}

	var rows [][]string
	for _, row := range values.Values {
		var cells []string
		for _, cell := range row {
			if s, ok := cell.(string); ok {
				cells = append(cells, s)
			} else {
				cells = append(cells, fmt.Sprint(cell))
			}
		}
		rows = append(rows, cells)
	}
	return FromRows(rows)
}
