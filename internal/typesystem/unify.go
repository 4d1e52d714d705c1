package typesystem

import (
	"fmt"
	"reflect"

	"github.com/funvibe/tuplecheck/internal/config"
)

// Resolver interface allows assignability checks to consult the class table
// for nominal subtyping and record field layouts.
type Resolver interface {
	IsSubclass(sub, super string) bool
	RecordFields(name string) ([]Type, bool)
	IsStrictMode() bool
}

// Assign checks that a value of type actual can be passed where expected is
// required (actual is a subtype of expected). Type variables occurring in
// expected are bound; s carries bindings made by earlier parameters.
func Assign(expected, actual Type, resolver Resolver, s Subst) (Subst, error) {
	if s == nil {
		s = Subst{}
	}
	return assignInternal(expected, actual, resolver, s)
}

// Equivalent reports whether a and b are assignable in both directions.
func Equivalent(a, b Type, resolver Resolver) bool {
	if _, err := Assign(a, b, resolver, nil); err != nil {
		return false
	}
	_, err := Assign(b, a, resolver, nil)
	return err == nil
}

func assignInternal(expected, actual Type, r Resolver, s Subst) (Subst, error) {
	if IsUnknown(expected) || IsUnknown(actual) {
		return s, nil
	}
	if reflect.DeepEqual(expected, actual) {
		return s, nil
	}

	// A type variable on the actual side stands for its binding, else its bound.
	if av, ok := actual.(TVar); ok {
		if bound, ok := s[av.Name]; ok {
			return assignInternal(expected, bound, r, s)
		}
		if ev, ok := expected.(TVar); ok && ev.Name == av.Name {
			return s, nil
		}
		if av.Bound == nil {
			return s, nil
		}
		return assignInternal(expected, av.Bound, r, s)
	}

	if ev, ok := expected.(TVar); ok {
		if bound, ok := s[ev.Name]; ok {
			return assignInternal(bound, actual, r, s)
		}
		return Bind(ev, actual, r, s)
	}

	if c, ok := expected.(TCon); ok && c.Module == "" && c.Name == config.ObjectTypeName {
		return s, nil
	}

	if au, ok := actual.(TUnion); ok {
		// Non-strict mode: Union -> member is accepted when any member fits.
		if _, expUnion := expected.(TUnion); !expUnion && !isStrict(r) {
			for _, member := range au.Types {
				if s2, err := assignInternal(expected, member, r, s); err == nil {
					return s2, nil
				}
			}
			return nil, errAssignMsg(expected, actual, "no member of union is assignable")
		}
		cur := s
		for _, member := range au.Types {
			next, err := assignInternal(expected, member, r, cur)
			if err != nil {
				return nil, errAssignContext("union member "+member.String(), err)
			}
			cur = next
		}
		return cur, nil
	}

	if eu, ok := expected.(TUnion); ok {
		for _, member := range eu.Types {
			if s2, err := assignInternal(member, actual, r, s); err == nil {
				return s2, nil
			}
		}
		return nil, errAssignMsg(expected, actual, "type is not a member of union")
	}

	switch e := expected.(type) {
	case TCon:
		return assignToNominal(e.QualifiedName(), expected, actual, r, s)

	case TApp:
		ename := e.ConstructorName()
		if isIterableProtocol(ename) && len(e.Args) == 1 {
			elem, err := IterableElement(actual, r)
			if err != nil {
				return nil, errAssignContext(ename, err)
			}
			return assignInternal(e.Args[0], elem, r, s)
		}
		switch a := actual.(type) {
		case TApp:
			if !isSubclass(r, a.ConstructorName(), ename) {
				return nil, errAssign(expected, actual)
			}
			if len(a.Args) != len(e.Args) {
				return nil, errMismatch(fmt.Sprintf("type arguments length mismatch: %d vs %d", len(e.Args), len(a.Args)))
			}
			cur := s
			for i := range e.Args {
				next, err := assignInternal(e.Args[i], a.Args[i], r, cur)
				if err != nil {
					return nil, errAssignContext(fmt.Sprintf("type argument %d of %s", i+1, ename), err)
				}
				cur = next
			}
			return cur, nil
		case TCon:
			// Unparameterized actual: generic arguments are erased.
			if isSubclass(r, a.QualifiedName(), ename) {
				return s, nil
			}
		case TTuple:
			if ename == config.TupleTypeName && len(e.Args) == 1 {
				cur := s
				for _, el := range a.Elements {
					next, err := assignInternal(e.Args[0], el, r, cur)
					if err != nil {
						return nil, errAssignContext("tuple element", err)
					}
					cur = next
				}
				return cur, nil
			}
			if isSubclass(r, config.TupleTypeName, ename) {
				return s, nil
			}
		}
		return nil, errAssign(expected, actual)

	case TTuple:
		var elems []Type
		switch a := actual.(type) {
		case TTuple:
			elems = a.Elements
		case TCon:
			fields, ok := recordFields(r, a.QualifiedName())
			if !ok {
				return nil, errAssignMsg(expected, actual, "cannot assign to tuple")
			}
			elems = fields
		default:
			return nil, errAssignMsg(expected, actual, "cannot assign to tuple")
		}
		if len(elems) != len(e.Elements) {
			return nil, errMismatch(fmt.Sprintf("tuple length mismatch: %d vs %d", len(e.Elements), len(elems)))
		}
		cur := s
		for i := range e.Elements {
			next, err := assignInternal(e.Elements[i], elems[i], r, cur)
			if err != nil {
				return nil, errAssignContext(fmt.Sprintf("tuple element %d", i+1), err)
			}
			cur = next
		}
		return cur, nil

	case TType:
		if a, ok := actual.(TType); ok {
			return assignInternal(e.Type, a.Type, r, s)
		}
		return nil, errAssignMsg(expected, actual, "expected a class object")

	case TFunc:
		return assignToCallable(e, actual, r, s)

	default:
		return nil, errMismatch(fmt.Sprintf("unknown type kind: %T", expected))
	}
}

func assignToNominal(name string, expected, actual Type, r Resolver, s Subst) (Subst, error) {
	switch a := actual.(type) {
	case TCon:
		if isSubclass(r, a.QualifiedName(), name) {
			return s, nil
		}
	case TApp:
		if isSubclass(r, a.ConstructorName(), name) {
			return s, nil
		}
	case TTuple:
		if isSubclass(r, config.TupleTypeName, name) {
			return s, nil
		}
	case TType:
		if name == config.TypeTypeName || name == config.CallableTypeName {
			return s, nil
		}
	case TFunc:
		if name == config.CallableTypeName {
			return s, nil
		}
	}
	return nil, errAssign(expected, actual)
}

func assignToCallable(e TFunc, actual Type, r Resolver, s Subst) (Subst, error) {
	switch a := actual.(type) {
	case TFunc:
		params := a.BoundParams()
		positional, required := 0, 0
		hasVarPos := false
		for _, p := range params {
			switch p.Kind {
			case ParamPositional:
				positional++
				if !p.HasDefault {
					required++
				}
			case ParamVarPositional:
				hasVarPos = true
			}
		}
		k := len(e.Params)
		if k < required || (k > positional && !hasVarPos) {
			return nil, errMismatch(fmt.Sprintf("callable arity mismatch: %s vs %s", e, a))
		}
		cur := s
		for i := 0; i < k && i < positional; i++ {
			// Parameters are contravariant.
			next, err := assignInternal(params[i].TypeOrAny(), e.Params[i].TypeOrAny(), r, cur)
			if err != nil {
				return nil, errAssignContext(fmt.Sprintf("callable parameter %d", i+1), err)
			}
			cur = next
		}
		if e.ReturnType == nil || a.ReturnType == nil {
			return cur, nil
		}
		return assignInternal(e.ReturnType, a.ReturnType, r, cur)
	case TType:
		return s, nil
	case TCon:
		if a.QualifiedName() == config.CallableTypeName {
			return s, nil
		}
	}
	return nil, errAssignMsg(e, actual, "value is not callable")
}

// IterableElement returns the element type produced by iterating over t.
func IterableElement(t Type, r Resolver) (Type, error) {
	switch a := t.(type) {
	case TUnknown:
		return Unknown, nil
	case TApp:
		name := a.ConstructorName()
		if len(a.Args) > 0 && (isIterableContainer(name) || isSubclass(r, name, config.IterableTypeName)) {
			return a.Args[0], nil
		}
	case TTuple:
		return NormalizeUnion(a.Elements), nil
	case TCon:
		name := a.QualifiedName()
		switch name {
		case config.StrTypeName:
			return a, nil
		case config.BytesTypeName:
			return TCon{Name: config.IntTypeName}, nil
		}
		if fields, ok := recordFields(r, name); ok {
			return NormalizeUnion(fields), nil
		}
		if isIterableContainer(name) || isSubclass(r, name, config.IterableTypeName) {
			return Unknown, nil
		}
	case TType:
		return nil, fmt.Errorf("class object %s is not iterable", a)
	}
	return nil, fmt.Errorf("%s is not iterable", t)
}

func isIterableProtocol(name string) bool {
	return name == config.IterableTypeName || name == config.SequenceTypeName
}

func isIterableContainer(name string) bool {
	switch name {
	case config.ListTypeName, config.TupleTypeName, config.SetTypeName, config.FrozenSetTypeName,
		config.DictTypeName, config.IterableTypeName, config.SequenceTypeName:
		return true
	}
	return false
}

func isSubclass(r Resolver, sub, super string) bool {
	if sub == super {
		return true
	}
	return r != nil && r.IsSubclass(sub, super)
}

func recordFields(r Resolver, name string) ([]Type, bool) {
	if r == nil {
		return nil, false
	}
	return r.RecordFields(name)
}

func isStrict(r Resolver) bool {
	return r != nil && r.IsStrictMode()
}

// Bind binds a type variable to a type, checking the variable's bound and
// performing the occurs check.
func Bind(tv TVar, t Type, r Resolver, s Subst) (Subst, error) {
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return s, nil
	}

	if tv.Bound != nil {
		if _, err := assignInternal(tv.Bound, t, r, s); err != nil {
			return nil, errMismatch(fmt.Sprintf("%s is not within bound %s of %s", t, tv.Bound, tv.Name))
		}
	}

	// Occurs check: ensure tv does not appear in t (to avoid infinite types)
	if OccursCheck(tv, t) {
		return nil, errMismatch(fmt.Sprintf("infinite type detected: %s in %s", tv, t))
	}

	return s.extend(tv.Name, t), nil
}

// OccursCheck returns true if tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}

func errAssign(expected, actual Type) error {
	return fmt.Errorf("cannot assign %s to %s", actual, expected)
}

func errAssignMsg(expected, actual Type, msg string) error {
	return fmt.Errorf("%s: %s vs %s", msg, expected, actual)
}

func errMismatch(msg string) error {
	return fmt.Errorf("type mismatch: %s", msg)
}

func errAssignContext(ctx string, err error) error {
	return fmt.Errorf("in %s: %w", ctx, err)
}
