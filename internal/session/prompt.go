package session

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var ErrTooManyTries = errors.New("too many tries")

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type PromptOpt func(*promptConfig)

func WithValidator(v promptValidator) PromptOpt {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) PromptOpt {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompt writes prompt to w and reads a line from in until the validator
// accepts it. The rejection message from the validator is written back.
func Prompt(in *bufio.Reader, w io.Writer, prompt string, opts ...PromptOpt) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if _, err := io.WriteString(w, prompt); err != nil {
			return "", err
		}

		input, err := readLine(in)
		if err != nil {
			return "", err
		}

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := io.WriteString(w, msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					_, _ = io.WriteString(w, "Too many tries.\n")
					return "", ErrTooManyTries
				}
				continue
			}
		}

		return input, nil
	}
}

// readLine returns the next line without its terminator. A final line with
// no terminator is returned before io.EOF.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
