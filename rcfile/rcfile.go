// Package rcfile parses flat runtime-configuration files made of
// "key=value" or "key value" lines, with shell-style quoting and "#"
// comments. It produces a plain string-to-string map; interpreting the
// values is the caller's business.
package rcfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"
)

// Parse reads the configuration file at path. A missing file is not an
// error and yields an empty map.
func Parse(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseReader(f, path)
}

// ParseReader parses configuration lines from r. name is only used in
// error messages.
func ParseReader(r io.Reader, name string) (map[string]string, error) {
	conf := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++

		tokens, err := shlex.Split(stripComment(scanner.Text()))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineno, err)
		}
		if len(tokens) == 0 {
			continue
		}

		// Support both key=value and "key value" syntaxes.
		if len(tokens) == 1 && strings.Contains(tokens[0], "=") {
			tokens = strings.SplitN(tokens[0], "=", 2)
		}
		if len(tokens) != 2 {
			return nil, fmt.Errorf("%s:%d: invalid line", name, lineno)
		}

		conf[tokens[0]] = tokens[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return conf, nil
}

// ParseSafe is Parse with errors absorbed: failures are logged as
// warnings and an empty map is returned.
func ParseSafe(path string, logger *zap.Logger) map[string]string {
	conf, err := Parse(path)
	if err != nil {
		logger.Warn("cannot parse configuration file",
			zap.String("path", path), zap.Error(err))
		return map[string]string{}
	}
	return conf
}

// stripComment drops everything from an unquoted '#' to end of line.
func stripComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			return line[:i]
		}
	}
	return line
}
