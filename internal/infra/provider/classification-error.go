package provider

import "fmt"

// ErrorKind is the closed set of classification failure categories.
type ErrorKind string

const (
	// ExternalFailure covers a non-zero exit of the model process, malformed
	// stdout, or an error object emitted by the model itself.
	ExternalFailure ErrorKind = "external_failure"
	// Timeout means the attempt exceeded its wall-clock budget and was killed.
	Timeout ErrorKind = "timeout"
)

// ClassificationError is the typed failure returned by the classifier
// boundary. Detail carries diagnostic text (stderr, parse error) and is meant
// for logs, not for end users.
type ClassificationError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification %s: %s", e.Kind, e.Detail)
}

// AsClassificationError unwraps err into a *ClassificationError when possible.
func AsClassificationError(err error) (*ClassificationError, bool) {
	cerr, ok := err.(*ClassificationError)
	return cerr, ok
}
