package internal

import (
	"fmt"
	"net/url"

	"github.com/derWhity/fyyur/internal/forms"
)

// -- Request data -----------------------------------------------------------------------------------------------------

// formRequest is a submitted form - together with the ID of the entity to edit, if any
type formRequest struct {
	ID   uint
	Form url.Values
}

// subject names the entity the form is about - used for building the messages shown after a submission
func (r formRequest) subject(kind string) string {
	if name := r.Form.Get(forms.FldName); name != "" {
		return kind + " " + name
	}
	if r.ID > 0 {
		return fmt.Sprintf("%s #%d", kind, r.ID)
	}
	return kind
}
