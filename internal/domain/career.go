package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Career is the academic career id the registrar attaches to every course.
type Career string

const (
	Undergraduate  Career = "UGRD"
	Graduate       Career = "GRAD"
	Law            Career = "LAW"
	DentalMedicine Career = "SDM"
	Medicine       Career = "MED"
	Pharmacy       Career = "PHRM"
)

var careerNames = map[string]Career{
	"UNDERGRADUATE":  Undergraduate,
	"GRADUATE":       Graduate,
	"LAW":            Law,
	"DENTALMEDICINE": DentalMedicine,
	"MEDICINE":       Medicine,
	"PHARMACY":       Pharmacy,
}

// Name is the human readable career, or the raw id when it is not a known one.
func (c Career) Name() string {
	switch c {
	case Undergraduate:
		return "Undergraduate"
	case Graduate:
		return "Graduate"
	case Law:
		return "Law"
	case DentalMedicine:
		return "Dental Medicine"
	case Medicine:
		return "Medicine"
	case Pharmacy:
		return "Pharmacy"
	}
	return string(c)
}

// ParseCareer accepts a career name ("Dental Medicine") or id ("SDM").
func ParseCareer(s string) (Career, error) {
	n := Normalize(s)
	if c, ok := careerNames[n]; ok {
		return c, nil
	}
	for _, c := range careerNames {
		if string(c) == n {
			return c, nil
		}
	}
	return "", fmt.Errorf("domain: %q is not a known career", s)
}

// Normalize strips whitespace and upper-cases, so "cse 115" and "CSE115" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
