package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/automa/internal/model"
)

// WhenLayout is the wire format of a job's "when" field: UTC with
// millisecond precision.
const WhenLayout = "2006-01-02T15:04:05.000Z"

// Layouts accepted for a local date-time input, without a zone.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseWhen interprets s as a date-time in loc. Inputs that carry their own
// zone (RFC 3339) are accepted as-is.
func ParseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q (want YYYY-MM-DDTHH:MM)", s)
}

// FormatWhen renders t in WhenLayout.
func FormatWhen(t time.Time) string {
	return t.UTC().Format(WhenLayout)
}

// JobRequest builds a job create request from a form. Empty fields are left
// unset so they are not sent; script_id becomes a number and when is
// converted from loc to UTC.
func JobRequest(f *Form, loc *time.Location) (*model.CreateJobRequest, error) {
	req := &model.CreateJobRequest{}
	var ve model.ValidationError

	if raw := strings.TrimSpace(f.Get("script_id")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ve.Errors = append(ve.Errors, model.FieldError{Field: "script_id", Message: "must be a number"})
		} else {
			req.ScriptID = &n
		}
	}
	if raw := f.Get("when"); raw != "" {
		t, err := ParseWhen(raw, loc)
		if err != nil {
			ve.Errors = append(ve.Errors, model.FieldError{Field: "when", Message: err.Error()})
		} else {
			s := FormatWhen(t)
			req.When = &s
		}
	}
	if ve.HasErrors() {
		return nil, &ve
	}
	if err := model.ValidateJob(req); err != nil {
		return nil, err
	}
	return req, nil
}
