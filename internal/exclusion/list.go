// Package exclusion implements the client denylist: publications that
// mention a listed name are intentionally skipped by the pipeline.
package exclusion

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize uppercases the text and strips diacritics so that
// "Fulano Conceição" and "FULANO CONCEICAO" compare equal.
func Normalize(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		out = text
	}
	return strings.ToUpper(out)
}

// List is a set of normalized client names loaded once at startup
type List struct {
	names []string
}

// Load reads the denylist from a flat text file, one name per line.
// Blank lines and lines starting with '#' are ignored. A missing file
// yields an empty list, matching nothing.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &List{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	l := &List{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		l.names = append(l.names, Normalize(name))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return l, nil
}

// Len returns the number of loaded names
func (l *List) Len() int {
	return len(l.names)
}

// Match reports whether any listed name appears in the publication text,
// returning the matched name. Comparison is case- and diacritic-insensitive.
func (l *List) Match(text string) (string, bool) {
	if len(l.names) == 0 {
		return "", false
	}

	normalized := Normalize(text)
	for _, name := range l.names {
		if strings.Contains(normalized, name) {
			return name, true
		}
	}

	return "", false
}
