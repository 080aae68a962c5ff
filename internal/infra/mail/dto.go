package mail

import "fmt"

// Message is a fully rendered email. HTML and Text always carry the same
// copy; only the markup differs.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// DispatchError is the typed failure the scheduler branches on: the lead's
// nurture flag stays unset and the send is retried on the next run.
type DispatchError struct {
	Provider string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s failed: %v", e.Provider, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// TemplateVars are the substitution values available to every template.
type TemplateVars struct {
	ContactName  string
	Company      string
	Reference    string // channel-specific: asset title, event name, product...
	DownloadLink string // only set on library confirmation sends
}
