// Package scripts discovers transformation scripts, parses their /**!
// metadata header, and offers a searchable library over them.
package scripts

import (
	"errors"
	"strconv"
	"strings"
)

// Origin distinguishes embedded (built-in) scripts from user-provided ones.
type Origin int

const (
	BuiltIn      Origin = iota // Embedded at compile time
	UserProvided               // Read from the user scripts directory
)

func (o Origin) String() string {
	if o == UserProvided {
		return "user"
	}
	return "built-in"
}

// Script holds the parsed metadata and full source of a single script.
type Script struct {
	Name        string
	Description string
	Icon        string   // empty if not declared
	Tags        []string // empty slice if not declared
	Bias        float64  // lower values sort earlier
	Origin      Origin
	Path        string // "embedded:<name>" for built-ins, absolute path for user scripts
	Content     string // full source, header included
}

var (
	errNoHeader       = errors.New("missing /**! header")
	errUnclosedHeader = errors.New("unclosed /**! header block")
	errNoName         = errors.New("/**! header missing @name")
	errNoDescription  = errors.New("/**! header missing @description")
)

// ParseHeader reads the /**! block at the top of content. Content is set on
// the returned Script even when an error is returned.
func ParseHeader(content string) (Script, error) {
	s := Script{Content: content, Tags: []string{}}

	body := strings.TrimPrefix(content, "\xef\xbb\xbf")
	rest, ok := strings.CutPrefix(body, "/**!")
	if !ok {
		return s, errNoHeader
	}
	block, _, ok := strings.Cut(rest, "*/")
	if !ok {
		return s, errUnclosedHeader
	}

	for line := range strings.SplitSeq(block, "\n") {
		key, val, ok := headerField(line)
		if !ok {
			continue
		}
		switch key {
		case "name":
			s.Name = val
		case "description":
			s.Description = val
		case "icon":
			s.Icon = val
		case "tags":
			for tag := range strings.SplitSeq(val, ",") {
				if t := strings.TrimSpace(tag); t != "" {
					s.Tags = append(s.Tags, t)
				}
			}
		case "bias":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				s.Bias = f
			}
		}
	}

	if s.Name == "" {
		return s, errNoName
	}
	if s.Description == "" {
		return s, errNoDescription
	}
	return s, nil
}

// headerField splits " * @key   value" into ("key", "value").
func headerField(line string) (key, val string, ok bool) {
	line = strings.TrimLeft(line, " \t")
	line = strings.TrimPrefix(line, "*")
	line = strings.TrimLeft(line, " \t")

	field, ok := strings.CutPrefix(line, "@")
	if !ok {
		return "", "", false
	}
	idx := strings.IndexAny(field, " \t")
	if idx < 0 {
		return "", "", false
	}
	return field[:idx], strings.TrimSpace(field[idx+1:]), true
}

// HasTag reports whether s carries tag (case-insensitive).
func (s Script) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
