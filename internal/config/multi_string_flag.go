package config

import (
	"errors"
	"strings"
)

var errMultiStringSetEmptyValue = errors.New("value cannot be empty")

const (
	defaultSeparator = ","
	pairSeparator    = "="
)

// MultiStringFlag implements the flag.Value interface and allows a string flag
// to be specified multiple times on the command line.
//
// e.g.: -listen-http 127.0.0.1:80 -listen-http [::1]:80
type MultiStringFlag struct {
	value     []string
	separator string
}

// Pair is a single key=value entry of a MultiStringFlag, such as a mount
// point or a namespace
type Pair struct {
	Key   string
	Value string
	// Raw is the entry as given on the command line
	Raw string
}

// String returns the list of parameters joined with the separator
func (s *MultiStringFlag) String() string {
	return strings.Join(s.value, s.sep())
}

// Set appends the value to the list of parameters
func (s *MultiStringFlag) Set(value string) error {
	if value == "" {
		return errMultiStringSetEmptyValue
	}

	s.value = append(s.value, value)
	return nil
}

// Split each flag
func (s *MultiStringFlag) Split() (result []string) {
	for _, str := range s.value {
		result = append(result, strings.Split(str, s.sep())...)
	}

	return
}

// Pairs splits every entry at its first "=". An entry without "=" yields
// a Pair with an empty Value, validation reports it.
func (s *MultiStringFlag) Pairs() []Pair {
	entries := s.Split()
	pairs := make([]Pair, 0, len(entries))

	for _, entry := range entries {
		key, value := entry, ""
		if i := strings.Index(entry, pairSeparator); i >= 0 {
			key, value = entry[:i], entry[i+1:]
		}

		pairs = append(pairs, Pair{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Raw:   entry,
		})
	}

	return pairs
}

func (s *MultiStringFlag) sep() string {
	if s.separator == "" {
		return defaultSeparator
	}

	return s.separator
}

func (s *MultiStringFlag) Len() int {
	return len(s.value)
}
