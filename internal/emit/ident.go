package emit

import (
	"strings"

	"github.com/pac-lang/pac/internal/ast"
)

// kernelTable maps the fixed set of kernel primitives spec.md §4.5 names to
// their JS equivalents. A name absent from the table passes through
// verbatim — the author of its `extern "..."` already chose a valid
// target-language identifier.
var kernelTable = map[string]string{
	"println": "console.log",
	"crash":   "console.error",
	"to_string": toStringHelperName,
}

const toStringHelperName = "__pacToString"

func kernelJS(name ast.Name) string {
	if js, ok := kernelTable[string(name)]; ok {
		return js
	}
	return string(name)
}

// identJS is the fixed identifier transformer spec.md §4.5 requires:
// snake_case collapses to camelCase, and a trailing `?` becomes a `Hmm`
// suffix (pac's convention for predicate names, e.g. `empty?` → `emptyHmm`).
func identJS(name ast.Name) string {
	s := string(name)
	hmm := strings.HasSuffix(s, "?")
	if hmm {
		s = strings.TrimSuffix(s, "?")
	}
	s = snakeToCamel(s)
	if hmm {
		s += "Hmm"
	}
	return s
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// moduleBinding derives a JS-safe namespace identifier for an imported
// module, since a dotted ModuleName can't itself be a JS identifier.
func moduleBinding(name ast.ModuleName) string {
	return strings.Join(name, "_")
}
