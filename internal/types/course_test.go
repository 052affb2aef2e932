package types

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    CourseStatus
		wantErr bool
	}{
		{"completed", CourseCompleted, false},
		{"Planned", CoursePlanned, false},
		{" in-progress ", CourseInProgress, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCourseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestCourse_JSONRoundTripKeepsStatus(t *testing.T) {
	c := Course{Code: "CS 3000", Title: "Algorithms", Credits: 4, Status: CourseInProgress}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"in-progress"`)

	var decoded Course
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)
	assert.False(t, decoded.IsCompleted())
}

func TestCourse_UnmarshalEnforcesInvariants(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{"unknown status", `{"code":"CS 3000","credits":4,"status":"done"}`, "status"},
		{"missing status", `{"code":"CS 3000","credits":4}`, "status"},
		{"negative credits", `{"code":"CS 2500","credits":-4,"status":"completed"}`, "credits"},
		{"zero credits", `{"code":"CS 2500","credits":0,"status":"planned"}`, "credits"},
		{"missing credits", `{"code":"CS 2500","status":"planned"}`, "credits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Course
			err := json.Unmarshal([]byte(tt.doc), &c)
			var ce *InvalidCourseError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantField, ce.Field)
			assert.Zero(t, c)
		})
	}
}

func TestCourse_UnmarshalListFailsOnAnyBadCourse(t *testing.T) {
	doc := `[{"code":"CS 3000","credits":4,"status":"done"},{"code":"CS 2500","credits":-4,"status":"completed"}]`
	var courses []Course
	var ce *InvalidCourseError
	require.ErrorAs(t, json.Unmarshal([]byte(doc), &courses), &ce)
	assert.Equal(t, "CS 3000", ce.Code)
}

func TestCourse_UnmarshalNormalizesStatusCase(t *testing.T) {
	var c Course
	require.NoError(t, json.Unmarshal([]byte(`{"code":"CS 3000","credits":4,"status":"In-Progress"}`), &c))
	assert.Equal(t, CourseInProgress, c.Status)
}

func TestValidateCourses(t *testing.T) {
	courses := []Course{
		{Code: "CS 1800", Credits: 4, Status: CourseCompleted},
		{Code: "CS 2500", Credits: -4, Status: CourseCompleted},
	}
	err := ValidateCourses(courses)
	var ce *InvalidCourseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "credits", ce.Field)
	assert.Contains(t, err.Error(), "courses[1]")

	assert.NoError(t, ValidateCourses(courses[:1]))
	assert.NoError(t, ValidateCourses(nil))
}

func TestCourseInput_Validate(t *testing.T) {
	valid := CourseInput{Code: "CS 3000", Title: "Algorithms", Credits: 4, Status: "completed", Grade: "a-"}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "A-", valid.Grade)

	tests := []struct {
		name  string
		input CourseInput
		field string
	}{
		{"missing code", CourseInput{Title: "Algorithms", Credits: 4, Status: "completed"}, "Code"},
		{"bad code", CourseInput{Code: "Algorithms", Title: "Algorithms", Credits: 4, Status: "completed"}, "Code"},
		{"missing title", CourseInput{Code: "CS3000", Credits: 4, Status: "completed"}, "Title"},
		{"zero credits", CourseInput{Code: "CS3000", Title: "Algorithms", Status: "completed"}, "Credits"},
		{"unknown status", CourseInput{Code: "CS3000", Title: "Algorithms", Credits: 4, Status: "dropped"}, "Status"},
		{"unknown grade", CourseInput{Code: "CS3000", Title: "Algorithms", Credits: 4, Status: "completed", Grade: "E"}, "Grade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}
