package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

const maxLineBytes = 1 << 20

var (
	assignmentPattern = regexp.MustCompile(`^([A-Z_]+)\s*\??=\s*(.*)`)
	targetPattern     = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// pendingComment tracks the comment line waiting to be attached to the next entry.
type pendingComment struct {
	text     string
	suppress bool
}

func (p *pendingComment) reset() {
	p.text = ""
	p.suppress = false
}

// observe records a trimmed comment line. A comment replaces, never extends,
// whatever was pending.
func (p *pendingComment) observe(line string) {
	p.suppress = strings.HasPrefix(line, "##")
	p.text = strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// ParseVariables reads assignments of the form NAME = value (or NAME ?= value).
//
// Blank lines clear the pending comment; lines that are neither comments nor
// assignments leave it untouched.
func ParseVariables(r io.Reader) (*Variables, error) {
	vars := &Variables{}
	var pending pendingComment

	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			pending.reset()
		case strings.HasPrefix(line, "#"):
			pending.observe(line)
		default:
			match := assignmentPattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			if !pending.suppress {
				vars.put(Variable{
					Name:        match[1],
					Default:     strings.TrimSpace(match[2]),
					Description: capitalize(pending.text),
				})
			}
			pending.reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read variables: %w", err)
	}
	return vars, nil
}

// ParseOperations reads rule declarations of the form target: prerequisites.
//
// Recipe lines (starting with a tab) keep the pending comment; any other line
// that is not blank, a comment, or a target declaration clears it.
func ParseOperations(r io.Reader) (*Operations, error) {
	ops := &Operations{}
	var pending pendingComment

	scanner := newScanner(r)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			pending.reset()
		case strings.HasPrefix(line, "#"):
			pending.observe(line)
		default:
			name, ok := matchTarget(line)
			if !ok {
				if !strings.HasPrefix(raw, "\t") {
					pending.reset()
				}
				continue
			}
			if !pending.suppress {
				description := capitalize(pending.text)
				if description == "" {
					description = fmt.Sprintf("Execute the %s target", name)
				}
				ops.put(Operation{Name: name, Description: description})
			}
			pending.reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read operations: %w", err)
	}
	return ops, nil
}

// matchTarget reports the rule name declared on line. Anything that starts
// with an identifier followed by a colon counts, NAME := value included.
func matchTarget(line string) (string, bool) {
	match := targetPattern.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// LoadVariables parses the variable source at path.
func LoadVariables(path string) (*Variables, error) {
	file, err := openSource(path, "Main config file", "available arguments")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseVariables(file)
}

// LoadOperations parses the operation source at path.
func LoadOperations(path string) (*Operations, error) {
	file, err := openSource(path, "Rules file", "available commands")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseOperations(file)
}

func openSource(path, kind, purpose string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSourceError{Kind: kind, Path: path, Purpose: purpose}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}
