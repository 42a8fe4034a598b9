package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pathways-sync/internal/domain"
	"pathways-sync/internal/sync"
)

// MalformedRowError is returned for an existing catalog row narrower than two columns.
type MalformedRowError struct {
	Path   string
	Line   int
	Fields int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("catalog: %s:%d: row has %d field(s), need at least 2", e.Path, e.Line, e.Fields)
}

// LoadKeys collects the course id of every row in the catalog at path.
// A missing file is the first-run case and yields an empty set.
func LoadKeys(path string) (*sync.KeySet, error) {
	keys := sync.NewKeySet()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return keys, nil
		}
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	err = eachRow(f, func(line int, row []string) error {
		if len(row) < 2 {
			return &MalformedRowError{Path: path, Line: line, Fields: len(row)}
		}
		keys.Add(row[0])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Catalog is the course list read back from a catalog CSV.
type Catalog struct {
	Courses []domain.CourseRecord

	byCode map[string]int
	byID   map[string]int
}

// Load reads every course of the catalog at path. Rows with fewer than three fields and a
// leading header row are skipped.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	c := &Catalog{byCode: map[string]int{}, byID: map[string]int{}}
	err = eachRow(f, func(line int, row []string) error {
		if len(row) < 3 {
			return nil
		}
		if line == 1 && isHeader(row) {
			return nil
		}
		c.add(domain.CourseRecord{CourseID: row[0], Career: row[1], CourseCode: row[2]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(rec domain.CourseRecord) {
	i := len(c.Courses)
	c.Courses = append(c.Courses, rec)
	if code := domain.Normalize(rec.CourseCode); code != "" {
		if _, dup := c.byCode[code]; !dup {
			c.byCode[code] = i
		}
	}
	if _, dup := c.byID[rec.CourseID]; !dup {
		c.byID[rec.CourseID] = i
	}
}

// Find looks a course up by code ("cse 115") or by raw course id ("004544").
func (c *Catalog) Find(s string) (domain.CourseRecord, bool) {
	if i, ok := c.byCode[domain.Normalize(s)]; ok {
		return c.Courses[i], true
	}
	if i, ok := c.byID[strings.TrimSpace(s)]; ok {
		return c.Courses[i], true
	}
	return domain.CourseRecord{}, false
}

func (c *Catalog) Len() int { return len(c.Courses) }

func isHeader(row []string) bool {
	switch strings.ToLower(strings.TrimSpace(row[0])) {
	case "id", "course_id":
		return true
	}
	return false
}

// eachRow walks the csv rows; fn gets the 1-based line where the row starts.
func eachRow(r io.Reader, fn func(line int, row []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, row); err != nil {
			return err
		}
	}
}
