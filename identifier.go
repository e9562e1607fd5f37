package csvsql

import (
	"path/filepath"
	"regexp"
	"strings"
)

// separatorRuns matches every run of whitespace or hyphen characters that
// must collapse into a single underscore.
var separatorRuns = regexp.MustCompile(`[\s-]+`)

// Identifier is a normalized schema or table name safe to embed in generated
// SQL. It contains no whitespace or hyphen characters and is lowercase.
type Identifier struct {
	value string
}

// NewIdentifier normalizes a raw name into an Identifier. Runs of whitespace
// and hyphens become a single underscore and the result is lowercased. An
// empty input yields an empty Identifier; callers supply their own fallback.
func NewIdentifier(name string) Identifier {
	return Identifier{value: strings.ToLower(separatorRuns.ReplaceAllString(name, "_"))}
}

// identifierFromPath derives an Identifier from the final segment of a file
// path: compression extension and format extension are stripped before
// normalization, so "dir/My-Data.csv.gz" yields "my_data".
func identifierFromPath(path string) Identifier {
	name := filepath.Base(path)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return NewIdentifier(name)
}

// String returns the normalized identifier text.
func (id Identifier) String() string {
	return id.value
}

// IsEmpty reports whether the identifier has no content.
func (id Identifier) IsEmpty() bool {
	return id.value == ""
}

// Qualify returns the schema-qualified form "<schema>.<name>".
func (id Identifier) Qualify(schema Identifier) string {
	return schema.value + "." + id.value
}

// Equal compares two identifiers.
func (id Identifier) Equal(other Identifier) bool {
	return id.value == other.value
}
