package newsapi

import (
	"errors"
	"strings"
)

// redact removes the API key from an error message.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
