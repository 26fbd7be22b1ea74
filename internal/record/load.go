package record

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("record: unsupported input format")
	ErrMissingColumn     = errors.New("record: missing column")
)

// Column aliases, lower case. The first entry is the canonical name.
var (
	nameColumns     = []string{"name", "pokemon"}
	categoryColumns = []string{"category", "type1", "type"}
	resourceColumns = []string{"resource", "sprite", "url"}
)

// Load reads every input in order and concatenates the records.
func Load(paths ...string) ([]Record, error) {
	var all []Record
	for _, p := range paths {
		recs, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}

// LoadFile reads a single metadata file.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	defer f.Close()

	var recs []Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		recs, err = ParseCSV(f)
	case ".yaml", ".yml":
		recs, err = ParseYAML(f)
	case ".json":
		recs, err = ParseJSON(f)
	case ".html", ".htm":
		recs, err = ParseHTML(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("record: parse %s: %w", path, err)
	}
	return recs, nil
}

// ParseCSV reads a CSV document whose first row is a header.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, cols.record(row))
	}
}

// ParseYAML reads a YAML list of records.
func ParseYAML(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil && err != io.EOF {
		return nil, err
	}
	return recs, nil
}

// ParseJSON reads a JSON array of records.
func ParseJSON(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ParseHTML reads the first table of an HTML document. A resource cell may
// hold the locator as text, as an <img src> or as an <a href>.
func ParseHTML(r io.Reader) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var (
		cols    columns
		haveHdr bool
		recs    []Record
		hdrErr  error
	)
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("th, td")
		if cells.Length() == 0 {
			return true
		}
		if !haveHdr {
			header := cells.Map(func(_ int, c *goquery.Selection) string {
				return c.Text()
			})
			cols, hdrErr = mapColumns(header)
			haveHdr = true
			return hdrErr == nil
		}
		row := cells.Map(func(i int, c *goquery.Selection) string {
			if i == cols.resource {
				if src, ok := c.Find("img").Attr("src"); ok {
					return src
				}
				if href, ok := c.Find("a").Attr("href"); ok {
					return href
				}
			}
			return c.Text()
		})
		recs = append(recs, cols.record(row))
		return true
	})
	if hdrErr != nil {
		return nil, hdrErr
	}
	return recs, nil
}

type columns struct {
	name, category, resource int
}

func mapColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	find := func(aliases []string) (int, error) {
		for _, a := range aliases {
			if i, ok := idx[a]; ok {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, aliases[0])
	}

	var c columns
	var err error
	if c.name, err = find(nameColumns); err != nil {
		return columns{}, err
	}
	if c.category, err = find(categoryColumns); err != nil {
		return columns{}, err
	}
	if c.resource, err = find(resourceColumns); err != nil {
		return columns{}, err
	}
	return c, nil
}

func (c columns) record(row []string) Record {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Record{
		Name:        cell(c.name),
		Category:    cell(c.category),
		ResourceRef: cell(c.resource),
	}
}
