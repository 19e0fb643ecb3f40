package config

import "strings"

// ConfigError reports every problem with a configuration file at once,
// so the operator fixes one round of issues instead of replaying the
// load. Missing holds unresolved ${VAR} references and Errors holds
// validation failures.
type ConfigError struct {
	Path    string
	Missing []string
	Errors  []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString("invalid configuration")
	for _, v := range e.Missing {
		b.WriteString("\n  unset environment variable " + v)
	}
	for _, msg := range e.Errors {
		b.WriteString("\n  " + msg)
	}
	return b.String()
}
