package tracing

import (
	"errors"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
)

var blockedAttributeKeys = map[attribute.Key]struct{}{
	"phone":     {},
	"mobile":    {},
	"email":     {},
	"aadhar_no": {},
	"pan_no":    {},
	"password":  {},
	"token":     {},
}

// SafeAttributes drops attributes that could carry customer PII.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, blocked := blockedAttributeKeys[attr.Key]; blocked {
			continue
		}
		out = append(out, attr)
	}
	return out
}

var longDigits = regexp.MustCompile(`\d{10,}`)

// SafeError masks long digit runs (phone, aadhar) in an error message before
// it is attached to a span.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(longDigits.ReplaceAllString(err.Error(), "[redacted]"))
}
