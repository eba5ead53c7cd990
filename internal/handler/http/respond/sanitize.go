package respond

import (
	"regexp"
)

var (
	// user:password@ in a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
	// Socrata app tokens and similar secrets passed in query strings
	queryTokenPattern = regexp.MustCompile(`(?i)((?:\$\$app_token|app_token|api_key|apikey|token)=)[^&\s"]+`)
)

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = queryTokenPattern.ReplaceAllString(msg, "$1****")
	return msg
}
