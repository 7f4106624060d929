package pages

import "memberfee_app_echo/web/templates/shared"

// LoginProps is the data of the login page
type LoginProps struct {
	Error string
}

// Section is a page shell whose content is loaded from Endpoint
type Section struct {
	Heading  string
	Endpoint string
	View     string // client-side renderer name
}

// ErrorPageProps is the data of the error pages
type ErrorPageProps struct {
	shared.PageProps
	ErrorTitle   string
	ErrorMessage string
	BackLink     string
	BackText     string
}

func (p ErrorPageProps) backLink() string {
	if p.BackLink == "" {
		return "/"
	}
	return p.BackLink
}

func (p ErrorPageProps) backText() string {
	if p.BackText == "" {
		return "Back to home"
	}
	return p.BackText
}
