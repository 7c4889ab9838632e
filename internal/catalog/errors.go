package catalog

import "fmt"

// ConfigurationError reports bad template or form data. It is fatal: the
// catalog refuses to load.
type ConfigurationError struct {
	Source string // "rooms" or "forms"
	Key    string // template or form key, empty for file-level problems
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Source, e.Key, e.Reason)
}

func roomErr(key, format string, args ...any) error {
	return &ConfigurationError{Source: "rooms", Key: key, Reason: fmt.Sprintf(format, args...)}
}

func formErr(key, format string, args ...any) error {
	return &ConfigurationError{Source: "forms", Key: key, Reason: fmt.Sprintf(format, args...)}
}
