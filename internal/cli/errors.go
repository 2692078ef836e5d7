package cli

import (
	"fmt"
	"strings"
)

type invalidFlagError struct {
	flag     string
	value    string
	expected []string
}

func (e invalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s %q (expected %s)", e.flag, e.value, strings.Join(e.expected, "|"))
}

func errInvalidFlag(flag, value string, expected ...string) error {
	return invalidFlagError{flag: flag, value: value, expected: expected}
}
