package prettyprinter

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// --- Stub Printer (Output looks like a .pyi file) ---

const stubIndent = "    "

var typingNames = regexp.MustCompile(`\b(Any|Callable|Iterable|Optional|Sized|Tuple|Type|TypeVar|Union)\b`)

// PrintRecord renders one record type as a class stub.
func PrintRecord(d *records.Descriptor) string {
	var buf bytes.Buffer
	writeRecord(&buf, d)
	return buf.String()
}

// PrintProgramStubs renders everything a program declared: module-level
// names, the record types with their TypeVars, and ordinary classes.
func PrintProgramStubs(registry *records.Registry, table *symbols.SymbolTable) string {
	var body bytes.Buffer
	descs := registry.All()

	var globals []string
	for _, sym := range table.Globals() {
		if line, ok := globalStub(sym, registry); ok {
			globals = append(globals, line)
		}
	}
	if len(globals) > 0 {
		body.WriteString("\n")
		for _, g := range globals {
			body.WriteString(g + "\n")
		}
	}

	var typeVars []string
	seen := make(map[string]bool)
	for _, d := range descs {
		if !seen[d.TVar.Name] {
			seen[d.TVar.Name] = true
			typeVars = append(typeVars, fmt.Sprintf("%s = TypeVar('%s', bound=%s)", d.TVar.Name, d.TVar.Name, d.TVar.Bound))
		}
	}
	if len(typeVars) > 0 {
		body.WriteString("\n")
		for _, tv := range typeVars {
			body.WriteString(tv + "\n")
		}
	}

	var classes []string
	for _, d := range descs {
		classes = append(classes, PrintRecord(d))
	}
	for _, sym := range table.Globals() {
		if sym.Kind != symbols.TypeSymbol {
			continue
		}
		if c, ok := table.FindClass(sym.Name); ok && c.Kind == symbols.UserClass {
			classes = append(classes, printClass(c))
		}
	}
	for _, c := range classes {
		body.WriteString("\n")
		body.WriteString(c)
	}

	var out bytes.Buffer
	text := body.String()
	if strings.Contains(text, config.CollectionsModuleName+".") {
		out.WriteString("import " + config.CollectionsModuleName + "\n")
	}
	if names := usedTypingNames(text); len(names) > 0 {
		out.WriteString("from " + config.TypingModuleName + " import " + strings.Join(names, ", ") + "\n")
	}
	out.WriteString(text)
	return strings.TrimLeft(out.String(), "\n")
}

func usedTypingNames(text string) []string {
	set := make(map[string]bool)
	for _, m := range typingNames.FindAllString(text, -1) {
		set[m] = true
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func globalStub(sym symbols.Symbol, registry *records.Registry) (string, bool) {
	switch sym.Kind {
	case symbols.VariableSymbol:
		return fmt.Sprintf("%s: %s", sym.Name, typeOrAny(sym.Type)), true
	case symbols.FunctionSymbol:
		if sig, ok := sym.Type.(typesystem.TFunc); ok {
			return sig.String() + ": ...", true
		}
	case symbols.TypeSymbol:
		// A record bound to a name other than its own.
		if c, ok := sym.Type.(typesystem.TCon); ok && c.Name != sym.Name {
			if _, isRecord := registry.Lookup(c.Name); isRecord {
				return fmt.Sprintf("%s = %s", sym.Name, c.Name), true
			}
		}
	}
	return "", false
}

func writeRecord(buf *bytes.Buffer, d *records.Descriptor) {
	fmt.Fprintf(buf, "class %s(%s):\n", d.Name, strings.Join(d.Bases, ", "))

	quoted := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		quoted[i] = fmt.Sprintf("%q", f.Name)
	}

	var defs []typesystem.TFunc
	for _, attr := range d.SynthesizedAttributes() {
		switch {
		case attr.Name == config.SlotsAttrName:
			fmt.Fprintf(buf, "%s%s = [%s]\n", stubIndent, attr.Name, strings.Join(quoted, ", "))
		default:
			if sig, ok := attr.Signature(); ok {
				defs = append(defs, sig)
				continue
			}
			fmt.Fprintf(buf, "%s%s: %s\n", stubIndent, attr.Name, attr.Type)
		}
	}
	for _, f := range d.Fields {
		fmt.Fprintf(buf, "%s%s: %s\n", stubIndent, f.Name, f.Type)
	}

	for _, kind := range records.OpKinds {
		defs = append(defs, d.Ops[kind])
	}
	for _, m := range d.Methods {
		defs = append(defs, m.Signature)
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	for _, sig := range defs {
		writeDef(buf, sig)
	}
}

func printClass(c *symbols.Class) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "class %s(%s):\n", c.Name, strings.Join(c.Bases, ", "))
	if len(c.AttributeOrder) == 0 {
		buf.WriteString(stubIndent + "...\n")
		return buf.String()
	}
	var defs []typesystem.TFunc
	for _, name := range c.AttributeOrder {
		if sig, ok := c.Attributes[name].(typesystem.TFunc); ok && sig.Name != "" {
			defs = append(defs, sig)
			continue
		}
		fmt.Fprintf(&buf, "%s%s: %s\n", stubIndent, name, typeOrAny(c.Attributes[name]))
	}
	for _, sig := range defs {
		writeDef(&buf, sig)
	}
	return buf.String()
}

func writeDef(buf *bytes.Buffer, sig typesystem.TFunc) {
	switch {
	case sig.IsClassMethod:
		buf.WriteString(stubIndent + "@classmethod\n")
	case sig.Receiver == typesystem.ReceiverNone:
		buf.WriteString(stubIndent + "@staticmethod\n")
	}
	fmt.Fprintf(buf, "%s%s: ...\n", stubIndent, sig)
}

func typeOrAny(t typesystem.Type) string {
	if t == nil {
		return typesystem.Unknown.String()
	}
	return t.String()
}
