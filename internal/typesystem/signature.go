package typesystem

import (
	"fmt"
	"strings"
)

// ParamKind distinguishes ordinary parameters from variadic ones.
type ParamKind int

const (
	ParamPositional    ParamKind = iota // name: T, bindable by position or keyword
	ParamVarPositional                  // *args: T
	ParamVarKeyword                     // **kwargs: T
)

// Param is one parameter of a signature.
type Param struct {
	Name       string
	Type       Type // nil when unannotated (treated as Any)
	HasDefault bool
	Kind       ParamKind
	// Accepts restricts a ParamVarKeyword to the listed names, each with its
	// own type. Empty means any keyword is absorbed with Type.
	Accepts []Param
}

// TypeOrAny returns the declared type, or Any when unannotated.
func (p Param) TypeOrAny() Type {
	if p.Type == nil {
		return Unknown
	}
	return p.Type
}

// Accepted looks up a keyword in a restricted ParamVarKeyword.
func (p Param) Accepted(name string) (Param, bool) {
	for _, a := range p.Accepts {
		if a.Name == name {
			return a, true
		}
	}
	return Param{}, false
}

func (p Param) String() string {
	var sb strings.Builder
	switch p.Kind {
	case ParamVarPositional:
		sb.WriteString("*")
	case ParamVarKeyword:
		sb.WriteString("**")
	}
	sb.WriteString(p.Name)
	if p.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	if p.HasDefault {
		sb.WriteString(" = ...")
	}
	return sb.String()
}

func (p Param) apply(s Subst, visited map[string]bool) Param {
	out := p
	if p.Type != nil {
		out.Type = ApplyWithCycleCheck(p.Type, s, visited)
	}
	if len(p.Accepts) > 0 {
		out.Accepts = make([]Param, len(p.Accepts))
		for i, a := range p.Accepts {
			out.Accepts[i] = a.apply(s, visited)
		}
	}
	return out
}

// ReceiverKind says whether the first parameter is bound implicitly.
type ReceiverKind int

const (
	ReceiverNone     ReceiverKind = iota // plain function
	ReceiverInstance                     // first parameter is self
	ReceiverClass                        // first parameter is cls (constructors, classmethods)
)

// TFunc is a callable signature. Named signatures are operations of a type
// or user functions; anonymous ones are Callable[[...], R] annotations.
type TFunc struct {
	Name          string
	Owner         string // declaring type, empty for free functions
	Params        []Param
	ReturnType    Type
	Receiver      ReceiverKind
	IsClassMethod bool
}

// QualifiedName is Owner.Name, or Name for free functions.
func (t TFunc) QualifiedName() string {
	if t.Owner != "" {
		return t.Owner + "." + t.Name
	}
	return t.Name
}

// BoundParams returns the parameters left after the receiver is bound.
func (t TFunc) BoundParams() []Param {
	if t.Receiver != ReceiverNone && len(t.Params) > 0 {
		return t.Params[1:]
	}
	return t.Params
}

// RequiredCount counts positional parameters without defaults, receiver excluded.
func (t TFunc) RequiredCount() int {
	n := 0
	for _, p := range t.BoundParams() {
		if p.Kind == ParamPositional && !p.HasDefault {
			n++
		}
	}
	return n
}

// VarKeyword returns the **kwargs parameter, if any.
func (t TFunc) VarKeyword() (Param, bool) {
	for _, p := range t.Params {
		if p.Kind == ParamVarKeyword {
			return p, true
		}
	}
	return Param{}, false
}

func (t TFunc) String() string {
	ret := "Any"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	if t.Name == "" {
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.TypeOrAny().String()
		}
		return fmt.Sprintf("Callable[[%s], %s]", strings.Join(params, ", "), ret)
	}
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("def %s(%s) -> %s", t.Name, strings.Join(params, ", "), ret)
}

func (t TFunc) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		if p.Type != nil {
			vars = append(vars, p.Type.FreeTypeVariables()...)
		}
		for _, a := range p.Accepts {
			if a.Type != nil {
				vars = append(vars, a.Type.FreeTypeVariables()...)
			}
		}
	}
	if t.ReturnType != nil {
		vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}
