package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template + Data are rendered by the worker; Subject/Text/HTML are used as-is otherwise.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "application_received", "account_deleted", "password_changed"
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize makes sure templates can always address the recipient.
func (j *EmailJob) Normalize() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["Email"].(string); !ok || v == "" {
		j.Data["Email"] = j.To
	}
}
