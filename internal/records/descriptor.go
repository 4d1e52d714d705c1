package records

import (
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// Field is one named, typed, positionally ordered component of a record.
type Field struct {
	Name       string
	Type       typesystem.Type
	HasDefault bool
	Default    typesystem.Type // static type of the default value, nil when unknown
	Order      int
	Token      token.Token
}

// OpKind enumerates the generated operations.
type OpKind int

const (
	OpNew        OpKind = iota // constructor
	OpMake                     // sequence-builder
	OpReplace                  // field-replace
	OpAsDict                   // to-ordered-mapping
	OpGetNewArgs               // reconstruction-args
)

// OpKinds lists every generated operation in generation order.
var OpKinds = []OpKind{OpNew, OpMake, OpReplace, OpAsDict, OpGetNewArgs}

var opNames = map[OpKind]string{
	OpNew:        config.NewMethodName,
	OpMake:       config.MakeMethodName,
	OpReplace:    config.ReplaceMethodName,
	OpAsDict:     config.AsDictMethodName,
	OpGetNewArgs: config.GetNewArgsMethodName,
}

func (k OpKind) String() string {
	return opNames[k]
}

// OpKindByName maps a member name back to the generated operation it names.
func OpKindByName(name string) (OpKind, bool) {
	for _, k := range OpKinds {
		if opNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Method is an ordinary (non-generated) method declared in a class body.
type Method struct {
	Name      string
	Signature typesystem.TFunc
	Token     token.Token
}

// Descriptor is a synthesized record type. It is built once per declaration
// and never mutated after registration; subclasses get a new Descriptor.
type Descriptor struct {
	Name    string
	Fields  []Field
	Bases   []string // declared bases without the factory marker
	TVar    typesystem.TVar
	Ops     map[OpKind]typesystem.TFunc
	Methods []Method
	Token   token.Token
}

// Instance is the type of values of the record.
func (d *Descriptor) Instance() typesystem.TCon {
	return typesystem.TCon{Name: d.Name}
}

// ClassObject is the type of the record class itself.
func (d *Descriptor) ClassObject() typesystem.TType {
	return typesystem.TType{Type: d.Instance()}
}

func (d *Descriptor) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

func (d *Descriptor) FieldTypes() []typesystem.Type {
	types := make([]typesystem.Type, len(d.Fields))
	for i, f := range d.Fields {
		types[i] = f.Type
	}
	return types
}

// FieldUnion is the union of all field types (Any for a record without fields).
func (d *Descriptor) FieldUnion() typesystem.Type {
	return typesystem.NormalizeUnion(d.FieldTypes())
}

func (d *Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d *Descriptor) Op(kind OpKind) (typesystem.TFunc, bool) {
	sig, ok := d.Ops[kind]
	return sig, ok
}

func (d *Descriptor) Method(name string) (Method, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}
