// Package convert maps raw cell values to the typed values handed out by a
// cursor.
package convert

import (
	"fmt"
	"strings"

	"github.com/bisegni/lobcursor/pkg/sqlerr"
)

// Kind is the target type of a conversion.
type Kind int

const (
	Any Kind = iota
	String
	Bool
	Int64
	Float64
	Decimal
	Bytes
	Time
	Blob
	Clob
	XML
)

var kindNames = [...]string{
	Any:     "any",
	String:  "string",
	Bool:    "bool",
	Int64:   "int64",
	Float64: "float64",
	Decimal: "decimal",
	Bytes:   "bytes",
	Time:    "time",
	Blob:    "blob",
	Clob:    "clob",
	XML:     "xml",
}

// SQL type names accepted by ParseKind in addition to the kind names.
var kindAliases = map[string]Kind{
	"object":    Any,
	"varchar":   String,
	"char":      String,
	"text":      String,
	"boolean":   Bool,
	"bit":       Bool,
	"int":       Int64,
	"integer":   Int64,
	"bigint":    Int64,
	"smallint":  Int64,
	"tinyint":   Int64,
	"long":      Int64,
	"double":    Float64,
	"float":     Float64,
	"real":      Float64,
	"numeric":   Decimal,
	"number":    Decimal,
	"binary":    Bytes,
	"varbinary": Bytes,
	"timestamp": Time,
	"date":      Time,
	"datetime":  Time,
	"sqlxml":    XML,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a case-insensitive kind name or SQL type alias.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == n {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[n]; ok {
		return k, nil
	}
	return Any, sqlerr.InvalidArgument("unknown column type %q", name)
}
