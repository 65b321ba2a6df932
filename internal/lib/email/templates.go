package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateActivityAlert corresponds to templates/activity_alert.html
	TemplateActivityAlert Template = "activity_alert"
	// TemplateDailyDigest corresponds to templates/daily_digest.html
	TemplateDailyDigest Template = "daily_digest"
)
