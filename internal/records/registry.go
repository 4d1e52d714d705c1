package records

import (
	"log/slog"

	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/symbols"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// Registry owns every record descriptor of one analysis run and mirrors
// each one into the class table so assignability sees it.
type Registry struct {
	table       *symbols.SymbolTable
	descriptors map[string]*Descriptor
	order       []string
	logger      *slog.Logger
}

func NewRegistry(table *symbols.SymbolTable, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		table:       table,
		descriptors: make(map[string]*Descriptor),
		logger:      logger,
	}
}

// FactoryCall is a NamedTuple("Name", fields, **keywords) invocation.
type FactoryCall struct {
	Name     string
	Factory  string           // callee as written, for messages
	Form     FactoryFormInput // nil when only keywords were given
	Keywords []FieldSpec
	Token    token.Token
}

// ClassDeclaration is a class statement whose bases include the factory
// marker or a record type.
type ClassDeclaration struct {
	Name  string
	Bases []string
	Body  ClassBody
	Token token.Token
}

// IsFactory reports whether name denotes the record factory.
func IsFactory(name string) bool {
	return name == config.NamedTupleName || name == config.QualifiedNamedTuple
}

// FactoryCall synthesizes the record declared by a factory call. A missing
// type name yields no descriptor.
func (r *Registry) FactoryCall(call FactoryCall) (*Descriptor, []*diagnostics.DiagnosticError, error) {
	factory := call.Factory
	if factory == "" {
		factory = config.NamedTupleName
	}
	switch {
	case call.Name == "":
		return nil, []*diagnostics.DiagnosticError{diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, call.Token,
			"%s: the first argument must be the type name as a string", factory)}, nil
	case !isIdentifier(call.Name):
		return nil, []*diagnostics.DiagnosticError{diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, call.Token,
			"%s: %q is not a valid type name", factory, call.Name)}, nil
	}

	fields, diags := ParseFactoryCall(call.Form, call.Keywords, factory, call.Token)
	d, synthDiags := Synthesize(Declaration{
		Name:   call.Name,
		Bases:  []string{config.TupleTypeName},
		Fields: fields,
		Token:  call.Token,
	})
	diags = append(diags, synthDiags...)

	if err := r.register(d); err != nil {
		return nil, diags, err
	}
	return d, diags, nil
}

// ClassDeclaration synthesizes a record declared with a class body.
func (r *Registry) ClassDeclaration(decl ClassDeclaration) (*Descriptor, []*diagnostics.DiagnosticError, error) {
	var bases []string
	var recordBases []*Descriptor
	for _, b := range decl.Bases {
		if IsFactory(b) {
			continue
		}
		bases = append(bases, b)
		if base, ok := r.descriptors[b]; ok {
			recordBases = append(recordBases, base)
		}
	}
	if len(recordBases) == 0 {
		bases = append(bases, config.TupleTypeName)
	}

	fields, methods, diags := ParseClassBody(decl.Body)
	d, synthDiags := Synthesize(Declaration{
		Name:        decl.Name,
		Bases:       bases,
		RecordBases: recordBases,
		Fields:      fields,
		Token:       decl.Token,
	})
	diags = append(diags, synthDiags...)
	diags = append(diags, ValidateOverrides(d, methods, r.table)...)

	if err := r.register(d); err != nil {
		return nil, diags, err
	}
	return d, diags, nil
}

func (r *Registry) register(d *Descriptor) error {
	if err := checkDescriptor(d); err != nil {
		return err
	}

	class := &symbols.Class{
		Name:   d.Name,
		Bases:  d.Bases,
		Kind:   symbols.RecordClass,
		Fields: d.FieldTypes(),
	}
	for _, m := range d.Methods {
		class.AddAttribute(m.Name, m.Signature)
	}
	r.table.DefineClass(class)

	if _, ok := r.descriptors[d.Name]; !ok {
		r.order = append(r.order, d.Name)
	}
	r.descriptors[d.Name] = d

	r.logger.Debug("synthesized record type",
		"name", d.Name,
		"fields", d.FieldNames(),
		"bases", d.Bases,
		"typevar", d.TVar.Name,
		"new", d.Ops[OpNew].String())
	return nil
}

// checkDescriptor verifies that every generated operation is generic over
// the descriptor's own type variable, bound to the descriptor or a base.
func checkDescriptor(d *Descriptor) error {
	if d.TVar.Bound == nil {
		return typesystem.NewInternalError("records.register", "%s has an unbound type variable %s", d.Name, d.TVar.Name)
	}
	for _, kind := range OpKinds {
		sig, ok := d.Ops[kind]
		if !ok {
			return typesystem.NewInternalError("records.register", "%s is missing generated operation %s", d.Name, kind)
		}
		for _, tv := range sig.FreeTypeVariables() {
			if tv.Name != d.TVar.Name {
				return typesystem.NewInternalError("records.register", "%s.%s is generic over foreign type variable %s", d.Name, kind, tv.Name)
			}
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// All returns every descriptor in declaration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// ResolveMember looks member up on d, then on its bases left to right.
func (r *Registry) ResolveMember(d *Descriptor, member string) (Member, bool) {
	return r.resolveMember(d, member, make(map[string]bool))
}

func (r *Registry) resolveMember(d *Descriptor, member string, visited map[string]bool) (Member, bool) {
	if visited[d.Name] {
		return Member{}, false
	}
	visited[d.Name] = true
	if m, ok := resolveOwnMember(d, member); ok {
		return m, true
	}
	for _, base := range d.Bases {
		if bd, ok := r.descriptors[base]; ok {
			if m, ok := r.resolveMember(bd, member, visited); ok {
				return m, true
			}
			continue
		}
		if t, owner, ok := r.table.LookupAttribute(base, member); ok {
			return Member{Name: member, Kind: InheritedMember, Type: t, Owner: owner.Name}, true
		}
	}
	return Member{}, false
}
