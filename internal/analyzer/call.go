package analyzer

import (
	"fmt"

	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// KeywordArg is one name=value argument at a call site.
type KeywordArg struct {
	Name  string
	Type  typesystem.Type
	Token token.Token
}

// CallSite is a call with every argument already typed.
type CallSite struct {
	// Receiver binds the signature's first parameter implicitly (the
	// instance for a method, the class object for a constructor or
	// classmethod). Nil means the first parameter is bound like any other.
	Receiver   typesystem.Type
	Positional []typesystem.Type
	Keywords   []KeywordArg
	Token      token.Token
}

// binding is one argument matched to one parameter.
type binding struct {
	param  typesystem.Param
	actual typesystem.Type
}

// CheckCall matches site against sig: receiver, positional arguments,
// keyword arguments, arity, then argument types. At most one diagnostic is
// produced; when there is one the result is Any. The error is reserved for
// defects of the checker itself.
func CheckCall(sig typesystem.TFunc, site CallSite, resolver typesystem.Resolver) (typesystem.Type, []*diagnostics.DiagnosticError, error) {
	name := sig.QualifiedName()
	if name == "" {
		name = sig.String()
	}
	fail := func(d *diagnostics.DiagnosticError) (typesystem.Type, []*diagnostics.DiagnosticError, error) {
		return typesystem.Unknown, []*diagnostics.DiagnosticError{d}, nil
	}

	params := sig.Params
	s := typesystem.Subst{}
	if site.Receiver != nil && sig.Receiver != typesystem.ReceiverNone {
		if len(params) == 0 {
			if hasBoundTypeVar(sig) {
				return nil, nil, typesystem.NewInternalError("CheckCall", "%s has no receiver parameter", name)
			}
			return fail(diagnostics.NewErrorf(diagnostics.ErrWrongArgCount, site.Token,
				"Function %s expects 0 positional arguments, got %d", name, len(site.Positional)+1))
		}
		expected := params[0].TypeOrAny()
		next, err := typesystem.Assign(expected, site.Receiver, resolver, s)
		if err != nil {
			// Generated operations are generic over the record's own type
			// variable, so a mismatch there is a checker defect. Anywhere
			// else the program annotated self or cls wrongly.
			if hasBoundTypeVar(expected) {
				return nil, nil, typesystem.NewInternalError("CheckCall", "cannot bind receiver %s to %s: %v", site.Receiver, name, err)
			}
			return fail(diagnostics.NewErrorf(diagnostics.ErrWrongArgTypes, site.Token,
				"Invalid argument type for parameter '%s' of function %s: expected %s, got %s",
				params[0].Name, name, expected, site.Receiver))
		}
		s = next
		params = params[1:]
	}

	var positional []typesystem.Param
	var varPositional, varKeyword *typesystem.Param
	for i := range params {
		switch params[i].Kind {
		case typesystem.ParamPositional:
			positional = append(positional, params[i])
		case typesystem.ParamVarPositional:
			varPositional = &params[i]
		case typesystem.ParamVarKeyword:
			varKeyword = &params[i]
		}
	}

	// Positional binding.
	var bindings []binding
	bound := make(map[string]bool, len(positional))
	for i, actual := range site.Positional {
		if i < len(positional) {
			bindings = append(bindings, binding{param: positional[i], actual: actual})
			bound[positional[i].Name] = true
			continue
		}
		if varPositional != nil {
			bindings = append(bindings, binding{param: *varPositional, actual: actual})
			continue
		}
		return fail(diagnostics.NewErrorf(diagnostics.ErrWrongArgCount, site.Token,
			"Function %s expects %s, got %d", name, plural(len(positional), "positional argument"), len(site.Positional)))
	}

	// Keyword binding.
	var unexpected []string
	absorbed := make(map[string]bool)
	for _, kw := range site.Keywords {
		if p, ok := findParam(positional, kw.Name); ok {
			if bound[kw.Name] {
				return fail(diagnostics.NewErrorf(diagnostics.ErrWrongKeywordArgs, kw.Token,
					"Multiple values for argument '%s' in call to function %s", kw.Name, name))
			}
			bound[kw.Name] = true
			bindings = append(bindings, binding{param: p, actual: kw.Type})
			continue
		}
		if varKeyword == nil {
			unexpected = append(unexpected, kw.Name)
			continue
		}
		p := typesystem.Param{Name: kw.Name, Type: varKeyword.Type}
		if len(varKeyword.Accepts) > 0 {
			accepted, ok := varKeyword.Accepted(kw.Name)
			if !ok {
				unexpected = append(unexpected, kw.Name)
				continue
			}
			p = accepted
		}
		if absorbed[kw.Name] {
			return fail(diagnostics.NewErrorf(diagnostics.ErrWrongKeywordArgs, kw.Token,
				"Multiple values for argument '%s' in call to function %s", kw.Name, name))
		}
		absorbed[kw.Name] = true
		bindings = append(bindings, binding{param: p, actual: kw.Type})
	}
	if len(unexpected) > 0 {
		return fail(diagnostics.NewWrongKeywordArgs(site.Token, name, unexpected))
	}

	// Arity.
	for _, p := range positional {
		if !p.HasDefault && !bound[p.Name] {
			return fail(diagnostics.NewErrorf(diagnostics.ErrMissingParameter, site.Token,
				"Missing parameter '%s' in call to function %s", p.Name, name))
		}
	}

	// Types.
	for _, b := range bindings {
		next, err := typesystem.Assign(b.param.TypeOrAny(), b.actual, resolver, s)
		if err != nil {
			expected := typesystem.ResolveBound(b.param.TypeOrAny().Apply(s))
			return fail(diagnostics.NewErrorf(diagnostics.ErrWrongArgTypes, site.Token,
				"Invalid argument type for parameter '%s' of function %s: expected %s, got %s",
				b.param.Name, name, expected, b.actual))
		}
		s = next
	}

	if err := checkBindings(sig, s, resolver); err != nil {
		return nil, nil, err
	}
	if sig.ReturnType == nil {
		return typesystem.Unknown, nil, nil
	}
	return typesystem.ResolveBound(sig.ReturnType.Apply(s)), nil, nil
}

// checkBindings verifies that every bound type variable of sig was resolved
// within its bound.
func checkBindings(sig typesystem.TFunc, s typesystem.Subst, resolver typesystem.Resolver) error {
	for _, tv := range sig.FreeTypeVariables() {
		t, ok := s[tv.Name]
		if !ok || tv.Bound == nil {
			continue
		}
		if _, err := typesystem.Assign(tv.Bound, t, resolver, nil); err != nil {
			return typesystem.NewInternalError("CheckCall", "%s resolved to %s outside its bound %s", tv.Name, t, tv.Bound)
		}
	}
	return nil
}

func hasBoundTypeVar(t typesystem.Type) bool {
	for _, tv := range t.FreeTypeVariables() {
		if tv.Bound != nil {
			return true
		}
	}
	return false
}

func findParam(params []typesystem.Param, name string) (typesystem.Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return typesystem.Param{}, false
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
