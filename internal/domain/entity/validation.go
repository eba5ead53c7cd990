package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for endpoint URLs.
const maxURLLength = 2048

// ValidateURL validates the format of an endpoint URL.
// The URL must be absolute, use the http or https scheme and carry a host.
// The endpoint is stored, not fetched, so no network lookup is made.
// Every failure is reported as a *ValidationError on the given field.
func ValidateURL(field, rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: "is not a valid URL"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "must use http or https scheme"}
	}

	if parsedURL.Host == "" || parsedURL.Hostname() == "" {
		return &ValidationError{Field: field, Message: "must have a valid host"}
	}

	return nil
}
