package utils

import (
	"errors"

	"github.com/kballard/go-shellquote"
)

var ErrEmptyCommand = errors.New("empty command")

// SplitStringIntoCommandAndArguments splits a CLI line with shell quoting
// rules into a command name and up to two arguments. Anything past the
// second argument is an error.
func SplitStringIntoCommandAndArguments(line string) (cmd, key, value string, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", "", "", err
	}

	switch len(words) {
	case 0:
		return "", "", "", ErrEmptyCommand
	case 1:
		return words[0], "", "", nil
	case 2:
		return words[0], words[1], "", nil
	case 3:
		return words[0], words[1], words[2], nil
	}
	return "", "", "", errors.New("too many arguments, quote values that contain spaces")
}
