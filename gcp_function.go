// Package p1admin wires the import pipeline into Google Cloud Functions:
// an HTTP trigger and a Pub/Sub trigger both run a spreadsheet-driven
// import using credentials held in Keeper Secrets Manager.
package p1admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
	ksm "github.com/keeper-security/secrets-manager-go/core"

	"github.com/pingone-tools/p1admin/internal/attrmap"
	"github.com/pingone-tools/p1admin/internal/config"
	"github.com/pingone-tools/p1admin/internal/importer"
	"github.com/pingone-tools/p1admin/internal/pingone"
	"github.com/pingone-tools/p1admin/internal/profile"
	"github.com/pingone-tools/p1admin/internal/source"
)

func init() {
	// Register the triggers with the Functions Framework
	functions.HTTP("P1AdminImportHttp", importHttp)
	functions.CloudEvent("P1AdminImportPubSub", importPubSub)
}

const ksmConfigName = "KSM_CONFIG_BASE64"
const ksmRecordUid = "KSM_RECORD_UID"

// runSheetImport locates the login record shared to the KSM application,
// reads the Google Sheet it points at, and imports the rows into the
// PingOne environment the record describes. Column mappings are suggested
// from the sheet's own headers; a "Population ID" custom field pins every
// imported user to one population.
func runSheetImport(ctx context.Context) (summary *importer.Summary, err error) {
	var configBase64 = os.Getenv(ksmConfigName)
	if len(configBase64) == 0 {
		err = fmt.Errorf("environment variable %q is not set", ksmConfigName)
		log.Println(err)
		return
	}

	var kv = ksm.NewMemoryKeyValueStorage(configBase64)
	var sm = ksm.NewSecretsManager(&ksm.ClientOptions{
		Config: kv,
	})

	var filter []string
	var recordUid = os.Getenv(ksmRecordUid)
	if len(recordUid) > 0 {
		filter = append(filter, recordUid)
	}

	var records []*ksm.Record
	if records, err = sm.GetSecrets(filter); err != nil {
		log.Println(err)
		return
	}

	var loginRecord *ksm.Record
	for _, r := range records {
		if r.Type() != "login" {
			continue
		}
		if profile.CustomFieldValue(r, "Environment ID") == "" {
			continue
		}
		if profile.CustomFieldValue(r, "Spreadsheet ID") == "" {
			continue
		}
		if len(r.FindFiles("credentials.json")) == 0 {
			continue
		}
		loginRecord = r
		break
	}
	if loginRecord == nil {
		err = errors.New("import record was not found. Make sure the record is valid and shared to the KSM application")
		log.Println(err)
		return
	}

	var p profile.Profile
	if p, err = profile.FromRecord(loginRecord); err != nil {
		log.Println(err)
		return
	}
	var spreadsheetId = profile.CustomFieldValue(loginRecord, "Spreadsheet ID")
	var sheetRange = profile.CustomFieldValue(loginRecord, "Sheet Range")
	var files = loginRecord.FindFiles("credentials.json")
	var credentials = files[0].GetFileData()

	var table *source.Table
	if table, err = source.ReadSheet(ctx, credentials, spreadsheetId, sheetRange); err != nil {
		log.Println(err)
		return
	}

	var cfg = config.Use()
	var client = pingone.NewClient(pingone.Options{
		APIBase:       cfg.PingOne.APIBase,
		AuthBase:      cfg.PingOne.AuthBase,
		EnvironmentID: p.EnvironmentID,
		ClientID:      p.ClientID,
		ClientSecret:  p.ClientSecret,
		Timeout:       cfg.PingOne.Timeout,
		PageLimit:     cfg.PingOne.PageLimit,
	})

	var opts = importer.Options{
		Mapping: attrmap.Mapping{Targets: attrmap.Suggest(table.Headers)},
	}
	if fixed := profile.CustomFieldValue(loginRecord, "Population ID"); fixed != "" {
		opts.Mapping.FixedPopulationID = fixed
	}

	if summary, err = importer.Run(ctx, client, table, opts); err != nil {
		log.Println(err)
		return
	}
	printStatistics(os.Stdout, summary)
	return
}

func printStatistics(w io.Writer, summary *importer.Summary) {
	if summary == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s\n", summary.String())
	if len(summary.Errors) > 0 {
		_, _ = fmt.Fprintf(w, "Failures:\n")
		for _, txt := range summary.Errors {
			_, _ = fmt.Fprintf(w, "\t%s\n", txt)
		}
	}
}

// importHttp is the HTTP trigger
func importHttp(w http.ResponseWriter, r *http.Request) {
	var summary, err = runSheetImport(r.Context())
	if err == nil {
		printStatistics(w, summary)
	} else {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// importPubSub consumes a CloudEvent message from the scheduler topic.
func importPubSub(ctx context.Context, _ event.Event) (err error) {
	_, err = runSheetImport(ctx)
	return
}
