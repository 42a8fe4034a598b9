package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

/*
Path Finder "cached/topics" export, trimmed to the fields we read:

{
  "data": [
    {
      "courses": {
        "Core": [
          {"course_id": "004544", "subject": "CSE", "catalog_number": "115"}
        ]
      }
    }
  ]
}
*/

// PathwayDocument is the decoded export. Data is nil only when it was missing or null.
type PathwayDocument struct {
	Data []PathwayGroup `json:"data"`
}

type PathwayGroup struct {
	Courses CourseGroups `json:"courses"`
}

// CourseGroups keeps the "courses" object in document order.
type CourseGroups []NamedCourses

type NamedCourses struct {
	Name    string
	Courses []RawCourse
}

// RawCourse fields are pointers so a missing key can be told apart from "".
type RawCourse struct {
	CourseID      *string `json:"course_id"`
	Subject       *string `json:"subject"`
	CatalogNumber *string `json:"catalog_number"`
}

// ParseError reports an export that is not valid JSON or does not have the expected shape.
type ParseError struct {
	Path string // location inside the document, e.g. data[2].courses
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse pathways: %v", e.Err)
	}
	return fmt.Sprintf("parse pathways: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissing = errors.New("missing or null")

// UnmarshalJSON decodes the object key by key. A repeated key keeps its first position
// and takes the last value.
func (g *CourseGroups) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("courses: expected object, got %v", tok)
	}

	out := CourseGroups{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("courses: expected key, got %v", tok)
		}

		var list []RawCourse
		if err := dec.Decode(&list); err != nil {
			return fmt.Errorf("courses[%q]: %w", name, err)
		}

		if i, seen := index[name]; seen {
			out[i].Courses = list
			continue
		}
		index[name] = len(out)
		out = append(out, NamedCourses{Name: name, Courses: list})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = out
	return nil
}

// DecodePathways reads and parses a whole export.
func DecodePathways(r io.Reader) (PathwayDocument, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return PathwayDocument{}, err
	}
	return ParsePathways(b)
}

// ParsePathways parses an export and checks the container shape (data, courses, entry
// lists). Entry fields are checked when the entry is read, see Require.
func ParsePathways(b []byte) (PathwayDocument, error) {
	var doc PathwayDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return PathwayDocument{}, &ParseError{Err: err}
	}

	if doc.Data == nil {
		return PathwayDocument{}, &ParseError{Path: "data", Err: errMissing}
	}
	for i, group := range doc.Data {
		if group.Courses == nil {
			return PathwayDocument{}, &ParseError{Path: fmt.Sprintf("data[%d].courses", i), Err: errMissing}
		}
		for _, named := range group.Courses {
			if named.Courses == nil {
				return PathwayDocument{}, &ParseError{
					Path: fmt.Sprintf("data[%d].courses[%q]", i, named.Name),
					Err:  errMissing,
				}
			}
		}
	}
	return doc, nil
}

// Require returns the value of a required entry field.
func Require(field string, v *string) (string, error) {
	if v == nil {
		return "", &ParseError{Path: field, Err: errMissing}
	}
	return *v, nil
}
