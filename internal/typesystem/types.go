package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a type variable. A bound TVar stands for "Bound or any
// subtype of it" and is resolved per call site.
type TVar struct {
	Name  string
	Bound Type // nil means unbounded (object)
}

func (t TVar) String() string {
	return t.Name
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ // Break cycle - return the variable as-is
		}

		if replacement, ok := s[typ.Name]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		return TApp{
			Constructor: ApplyWithCycleCheck(typ.Constructor, s, visited),
			Args:        newArgs,
		}

	case TCon, TUnknown:
		return typ

	case TFunc:
		newParams := make([]Param, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = p.apply(s, visited)
		}
		out := typ
		out.Params = newParams
		out.ReturnType = ApplyWithCycleCheck(typ.ReturnType, s, visited)
		return out

	case TTuple:
		newElems := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			newElems[i] = ApplyWithCycleCheck(e, s, visited)
		}
		return TTuple{Elements: newElems}

	case TUnion:
		newTypes := make([]Type, len(typ.Types))
		for i, t := range typ.Types {
			newTypes[i] = ApplyWithCycleCheck(t, s, visited)
		}
		return NormalizeUnion(newTypes)

	case TType:
		return TType{Type: ApplyWithCycleCheck(typ.Type, s, visited)}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// TCon represents a nominal type (e.g. int, str, a record type).
type TCon struct {
	Name   string
	Module string // Optional module qualifier (e.g. collections)
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

// QualifiedName is the key used in the class table.
func (t TCon) QualifiedName() string { return t.String() }

func (t TCon) Apply(s Subst) Type {
	return t
}

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TUnknown is the "unknown type" placeholder (printed as Any).
// It is compatible with every type in both directions.
type TUnknown struct{}

func (t TUnknown) String() string            { return "Any" }
func (t TUnknown) Apply(s Subst) Type        { return t }
func (t TUnknown) FreeTypeVariables() []TVar { return []TVar{} }

// Unknown is the shared placeholder value.
var Unknown Type = TUnknown{}

// IsUnknown reports whether t is the unknown placeholder (or nil).
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(TUnknown)
	return ok
}

// TApp represents a parameterized type (e.g. Iterable[int]).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s[%s]", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := []TVar{}
	vars = append(vars, t.Constructor.FreeTypeVariables()...)
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// ConstructorName returns the nominal name of the applied constructor.
func (t TApp) ConstructorName() string {
	if c, ok := t.Constructor.(TCon); ok {
		return c.QualifiedName()
	}
	return ""
}

// TTuple represents a fixed-length, positionally typed tuple (e.g. Tuple[int, str]).
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	if len(t.Elements) == 0 {
		return "Tuple[()]"
	}
	args := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		args[i] = el.String()
	}
	return fmt.Sprintf("Tuple[%s]", strings.Join(args, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TUnion represents a union type (e.g. Union[int, str]).
// Types are normalized: flattened, deduplicated, and sorted for comparison.
type TUnion struct {
	Types []Type // At least 2 types
}

func (t TUnion) String() string {
	parts := make([]string, len(t.Types))
	for i, typ := range t.Types {
		parts[i] = typ.String()
	}
	return fmt.Sprintf("Union[%s]", strings.Join(parts, ", "))
}

func (t TUnion) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TUnion) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, typ := range t.Types {
		vars = append(vars, typ.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// NormalizeUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts types.
// A union containing Any collapses to Any; an empty union is Any.
func NormalizeUnion(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	seen := make(map[string]bool)
	unique := []Type{}
	for _, t := range flat {
		if IsUnknown(t) {
			return Unknown
		}
		s := t.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, t)
		}
	}

	switch len(unique) {
	case 0:
		return Unknown
	case 1:
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return TUnion{Types: unique}
}

// TType represents the class object of a type (Type[X]).
type TType struct {
	Type Type
}

func (t TType) String() string { return fmt.Sprintf("Type[%s]", t.Type.String()) }

func (t TType) Apply(s Subst) Type {
	return TType{Type: ApplyWithCycleCheck(t.Type, s, make(map[string]bool))}
}

func (t TType) FreeTypeVariables() []TVar {
	return t.Type.FreeTypeVariables()
}

// Subst is a mapping from Type Variables to Types.
type Subst map[string]Type

// Compose combines two substitutions.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// extend returns a copy of s with name bound to t.
func (s1 Subst) extend(name string, t Type) Subst {
	out := make(Subst, len(s1)+1)
	for k, v := range s1 {
		out[k] = v
	}
	out[name] = t
	return out
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}

// ResolveBound replaces every free type variable in t with its bound
// (or Any when unbounded).
func ResolveBound(t Type) Type {
	if t == nil {
		return nil
	}
	vars := t.FreeTypeVariables()
	if len(vars) == 0 {
		return t
	}
	subst := make(Subst, len(vars))
	for _, v := range vars {
		if v.Bound != nil {
			subst[v.Name] = v.Bound
		} else {
			subst[v.Name] = Unknown
		}
	}
	return t.Apply(subst)
}
