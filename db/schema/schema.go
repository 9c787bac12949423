// Package schema holds the reference DDL of the retail tables. Nothing in the
// application applies it to a live database; tests load the SQLite variant.
package schema

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
)

var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"`)
)

//go:embed *.sql
var files embed.FS

// For returns the DDL for a dialect name (mysql, postgres, sqlite).
func For(dialect string) (string, error) {
	data, err := files.ReadFile(dialect + ".sql")
	if err != nil {
		return "", fmt.Errorf("no reference schema for %s: %w", dialect, err)
	}
	return string(data), nil
}

// Statements splits a DDL script on semicolons that are outside quoted
// strings and drops line comments and empty statements.
func Statements(script string) []string {
	script = commentRegex.ReplaceAllString(script, "")

	inString := make(map[int]bool)
	for _, match := range stringRegex.FindAllStringIndex(script, -1) {
		for i := match[0]; i < match[1]; i++ {
			inString[i] = true
		}
	}

	statements := make([]string, 0, strings.Count(script, ";")+1)
	var current strings.Builder
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i, char := range script {
		if char == ';' && !inString[i] {
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()

	return statements
}
