package records

import (
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// reservedAttributes may never be redeclared in a record class body.
var reservedAttributes = map[string]bool{
	config.InitMethodName:        true,
	config.FieldsAttrName:        true,
	config.FieldDefaultsAttrName: true,
	config.FieldTypesAttrName:    true,
	config.SlotsAttrName:         true,
}

// ValidateOverrides checks the methods of a record class body against d's
// generated members. Accepted methods end up in d: a compatible __new__
// replaces the generated constructor, ordinary methods are appended to
// d.Methods, compatible redeclarations of other generated operations keep
// the generated signature. Everything else is NotWritable.
func ValidateOverrides(d *Descriptor, methods []Method, resolver typesystem.Resolver) []*diagnostics.DiagnosticError {
	var diags []*diagnostics.DiagnosticError
	notWritable := func(m Method) {
		diags = append(diags, diagnostics.NewErrorf(diagnostics.ErrNotWritable, m.Token,
			"Attribute '%s' of %s is not writable", m.Name, d.Name))
	}

	for _, m := range methods {
		if reservedAttributes[m.Name] {
			notWritable(m)
			continue
		}
		kind, generated := OpKindByName(m.Name)
		if !generated {
			m.Signature.Owner = d.Name
			d.Methods = append(d.Methods, m)
			continue
		}
		if kind == OpNew {
			if ctor, ok := narrowedConstructor(d, m.Signature, resolver); ok {
				d.Ops[OpNew] = ctor
				continue
			}
			notWritable(m)
			continue
		}
		if !sameShape(d.Ops[kind], m.Signature, resolver) {
			notWritable(m)
		}
	}
	return diags
}

// narrowedConstructor accepts a __new__ whose parameters are exactly the
// fields (same names and order, each accepting its field type) and which
// keeps every existing default. It returns the signature that replaces the
// generated constructor.
func narrowedConstructor(d *Descriptor, sig typesystem.TFunc, resolver typesystem.Resolver) (typesystem.TFunc, bool) {
	if len(sig.Params) == 0 {
		return typesystem.TFunc{}, false
	}
	params := sig.Params[1:]
	if len(params) != len(d.Fields) {
		return typesystem.TFunc{}, false
	}

	out := typesystem.TFunc{
		Name:       config.NewMethodName,
		Owner:      d.Name,
		Params:     []typesystem.Param{{Name: sig.Params[0].Name, Type: typesystem.TType{Type: d.TVar}}},
		ReturnType: d.TVar,
		Receiver:   typesystem.ReceiverClass,
	}
	for i, p := range params {
		f := d.Fields[i]
		if p.Kind != typesystem.ParamPositional || p.Name != f.Name {
			return typesystem.TFunc{}, false
		}
		if f.HasDefault && !p.HasDefault {
			return typesystem.TFunc{}, false
		}
		typ := f.Type
		if p.Type != nil {
			if _, err := typesystem.Assign(p.Type, f.Type, resolver, nil); err != nil {
				return typesystem.TFunc{}, false
			}
			typ = p.Type
		}
		out.Params = append(out.Params, typesystem.Param{Name: p.Name, Type: typ, HasDefault: p.HasDefault})
	}
	return out, true
}

// sameShape reports whether a redeclared operation matches the generated
// one: same parameter names and kinds, and equivalent types wherever the
// redeclaration is annotated.
func sameShape(generated, declared typesystem.TFunc, resolver typesystem.Resolver) bool {
	if generated.IsClassMethod != declared.IsClassMethod {
		return false
	}
	gp, dp := generated.BoundParams(), declared.BoundParams()
	if len(gp) != len(dp) {
		return false
	}
	for i := range gp {
		if gp[i].Name != dp[i].Name || gp[i].Kind != dp[i].Kind || gp[i].HasDefault != dp[i].HasDefault {
			return false
		}
		if dp[i].Type != nil && !typesystem.Equivalent(typesystem.ResolveBound(gp[i].TypeOrAny()), dp[i].Type, resolver) {
			return false
		}
	}
	if declared.ReturnType != nil {
		return typesystem.Equivalent(typesystem.ResolveBound(generated.ReturnType), declared.ReturnType, resolver)
	}
	return true
}
