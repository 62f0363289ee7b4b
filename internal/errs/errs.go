// Package errs defines the three error classes the bot distinguishes:
// configuration errors (fatal at startup), external-service errors (the
// affected mail is retried on the next poll cycle) and processing errors
// (the model produced unusable output; terminal for that mail).
package errs

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing or invalid required setting.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing or invalid configuration: %s", e.Key)
}

// ExternalServiceError wraps a failed call to a collaborator (mailbox, model
// or chat service). Dedup state is left untouched when one is returned, so
// the same mail is picked up again on the next cycle.
type ExternalServiceError struct {
	Service string
	MailID  string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.MailID != "" {
		return fmt.Sprintf("%s: mail %s: %v", e.Service, e.MailID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ProcessingError reports unparsable or incomplete structured model output.
// Raw carries the offending payload verbatim for diagnosis.
type ProcessingError struct {
	MailID string
	Raw    string
	Msg    string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing mail %s: %s", e.MailID, e.Msg)
}

// External wraps err as an ExternalServiceError for the named service.
func External(service, mailID string, err error) error {
	return &ExternalServiceError{Service: service, MailID: mailID, Err: err}
}

// Processing builds a ProcessingError carrying the raw model payload.
func Processing(mailID, raw, msg string) error {
	return &ProcessingError{MailID: mailID, Raw: raw, Msg: msg}
}

// IsProcessing reports whether err is (or wraps) a ProcessingError.
func IsProcessing(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}

// IsExternal reports whether err is (or wraps) an ExternalServiceError.
func IsExternal(err error) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee)
}
