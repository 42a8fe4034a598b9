package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"pathways-sync/internal/domain"
)

// WriteCourseCSV writes catalog rows without a header, CRLF terminated.
func WriteCourseCSV(w io.Writer, courses []domain.CourseRecord) error {
	if len(courses) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	// same dialect the catalog has always been written in
	cw.UseCRLF = true

	if err := gocsv.MarshalCSVWithoutHeaders(courses, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendCourseCSV appends rows to the catalog at path, creating it if needed.
// The file is created even when there is nothing to append.
func AppendCourseCSV(path string, courses []domain.CourseRecord) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()

	if err := WriteCourseCSV(f, courses); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
