package source

import (
	"bufio"
	"encoding/base64"
	"io"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/pingone-tools/p1admin/internal/sets"
)

// ReadLDIF parses LDIF from r. Entries are separated by blank lines; the
// dn line is positional and never becomes a column. An attribute repeated
// within one entry is carried as a JSON array cell so list values survive
// the trip through a flat table.
func ReadLDIF(r io.Reader) (*Table, error) {
	var (
		t       = &Table{}
		seen    = sets.New[string]()
		entry   = map[string][]string{}
		order   []string
		lastKey string
	)

	flush := func() {
		if len(entry) == 0 {
			return
		}
		row := make(map[string]string, len(entry))
		for _, key := range order {
			values := entry[key]
			if len(values) == 1 {
				row[key] = values[0]
			} else {
				row[key] = oj.JSON(values)
			}
		}
		t.Rows = append(t.Rows, row)
		entry = map[string][]string{}
		order = nil
		lastKey = ""
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "#"):
			// comment
		case strings.HasPrefix(line, " "):
			// folded continuation of the previous value
			if lastKey != "" {
				values := entry[lastKey]
				values[len(values)-1] += line[1:]
				entry[lastKey] = values
			}
		default:
			idx := strings.Index(line, ":")
			if idx <= 0 {
				continue
			}
			key := strings.TrimSpace(line[:idx])
			value := decodeValue(line[idx+1:])
			if key == "version" && len(entry) == 0 && len(t.Rows) == 0 {
				continue
			}
			lastKey = key
			if _, ok := entry[key]; !ok {
				order = append(order, key)
			}
			entry[key] = append(entry[key], value)
			if key != "dn" && !seen.Has(key) {
				seen.Add(key)
				t.Headers = append(t.Headers, key)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	for i := range t.Rows {
		delete(t.Rows[i], "dn")
	}
	return t, nil
}

// decodeValue handles both "attr: value" and the base64 "attr:: value"
// form. Undecodable base64 is kept raw.
func decodeValue(rest string) string {
	if strings.HasPrefix(rest, ":") {
		raw := strings.TrimSpace(rest[1:])
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			return string(decoded)
		}
		return raw
	}
	return strings.TrimPrefix(rest, " ")
}

func OpenLDIF(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLDIF(f)
}
