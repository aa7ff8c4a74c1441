package requests

// CreatePersonRequest is the form data for creating a person.
type CreatePersonRequest struct {
	Name    string `form:"Name" sanitize:"strict" validate:"required,max=100"`
	CheckMe bool   `form:"CheckMe"`
}
