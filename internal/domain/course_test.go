package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseCode(t *testing.T) {
	testCases := []struct {
		subject  string
		catalog  string
		expected string
	}{
		{"CS", "101", "CS101"},
		{"CSE", "115", "CSE115"},
		{"GLY", "105LR", "GLY105LR"},
		{"", "101", "101"},
		{"MTH", "", "MTH"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, CourseCode(tc.subject, tc.catalog))
	}
}

func TestCourseRecordRow(t *testing.T) {
	rec := CourseRecord{CourseID: "004544", Career: string(Undergraduate), CourseCode: "CSE115"}
	assert.Equal(t, []string{"004544", "UGRD", "CSE115"}, rec.Row())
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"CSE115", "CSE115"},
		{"cse 115", "CSE115"},
		{" Dental\tMedicine ", "DENTALMEDICINE"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Normalize(tc.input), "Normalize(%q)", tc.input)
	}
}

func TestParseCareer(t *testing.T) {
	testCases := []struct {
		input    string
		expected Career
	}{
		{"Undergraduate", Undergraduate},
		{"undergraduate", Undergraduate},
		{"UGRD", Undergraduate},
		{"Dental Medicine", DentalMedicine},
		{"sdm", DentalMedicine},
		{"Pharmacy", Pharmacy},
		{"GRAD", Graduate},
	}

	for _, tc := range testCases {
		got, err := ParseCareer(tc.input)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, got, tc.input)
	}

	_, err := ParseCareer("Kindergarten")
	assert.Error(t, err)
}

func TestCareerName(t *testing.T) {
	assert.Equal(t, "Undergraduate", Undergraduate.Name())
	assert.Equal(t, "Dental Medicine", DentalMedicine.Name())
	assert.Equal(t, "XYZ", Career("XYZ").Name())
}
