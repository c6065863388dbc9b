// Package forms implements the create-form and login controllers: they read
// submitted fields, build API requests, post them and refresh the affected
// section of the display.
package forms

import (
	"net/url"
)

// Form is a named set of submitted fields.
type Form struct {
	Name   string
	values url.Values
}

// Form names.
const (
	FormLogin  = "login"
	FormAgent  = "agent"
	FormScript = "script"
	FormJob    = "job"
)

// NewForm returns a form holding a copy of values.
func NewForm(name string, values url.Values) *Form {
	f := &Form{Name: name, values: url.Values{}}
	for k, vs := range values {
		f.values[k] = append([]string(nil), vs...)
	}
	return f
}

// Get returns the first value of field, or "".
func (f *Form) Get(field string) string {
	return f.values.Get(field)
}

// Set replaces the value of field.
func (f *Form) Set(field, value string) {
	f.values.Set(field, value)
}

// Reset clears every field.
func (f *Form) Reset() {
	f.values = url.Values{}
}
