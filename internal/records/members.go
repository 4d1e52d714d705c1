package records

import (
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

type MemberKind int

const (
	FieldMember     MemberKind = iota // a declared or inherited field
	OperationMember                   // one of the generated operations
	AttributeMember                   // a synthesized attribute (_fields, __slots__, ...)
	MethodMember                      // an ordinary method from a class body
	InheritedMember                   // found on a non-record base class
)

// Member is the result of member access on a record type.
type Member struct {
	Name  string
	Kind  MemberKind
	Type  typesystem.Type // field type, or TFunc for operations and methods
	Owner string
}

// Signature returns the member's callable signature, if it has one.
func (m Member) Signature() (typesystem.TFunc, bool) {
	sig, ok := m.Type.(typesystem.TFunc)
	return sig, ok
}

// SynthesizedAttributes returns the attributes every record exposes besides
// its fields and generated operations, in stub order.
func (d *Descriptor) SynthesizedAttributes() []Member {
	union := d.FieldUnion()
	names := make([]typesystem.Type, len(d.Fields))
	for i := range d.Fields {
		names[i] = strType
	}
	self := typesystem.Param{Name: "self"}

	attr := func(name string, t typesystem.Type) Member {
		return Member{Name: name, Kind: AttributeMember, Type: t, Owner: d.Name}
	}
	return []Member{
		attr(config.SlotsAttrName, typesystem.TTuple{Elements: names}),
		attr(config.DictAttrName, OrderedDictOf(strType, union)),
		attr(config.FieldDefaultsAttrName, OrderedDictOf(strType, union)),
		attr(config.FieldTypesAttrName, OrderedDictOf(strType, typeType)),
		attr(config.FieldsAttrName, typesystem.TTuple{Elements: names}),
		attr(config.InitMethodName, typesystem.TFunc{
			Name:  config.InitMethodName,
			Owner: d.Name,
			Params: []typesystem.Param{
				self,
				{Name: "args", Kind: typesystem.ParamVarPositional},
				{Name: "kwargs", Kind: typesystem.ParamVarKeyword},
			},
			ReturnType: noneType,
			Receiver:   typesystem.ReceiverInstance,
		}),
		attr(config.GetStateMethodName, typesystem.TFunc{
			Name:       config.GetStateMethodName,
			Owner:      d.Name,
			Params:     []typesystem.Param{self},
			ReturnType: noneType,
			Receiver:   typesystem.ReceiverInstance,
		}),
	}
}

// resolveOwnMember looks a member up on d alone: fields, generated
// operations, synthesized attributes, then ordinary methods.
func resolveOwnMember(d *Descriptor, member string) (Member, bool) {
	if f, ok := d.Field(member); ok {
		return Member{Name: member, Kind: FieldMember, Type: f.Type, Owner: d.Name}, true
	}
	if kind, ok := OpKindByName(member); ok {
		if sig, ok := d.Op(kind); ok {
			return Member{Name: member, Kind: OperationMember, Type: sig, Owner: d.Name}, true
		}
	}
	for _, attr := range d.SynthesizedAttributes() {
		if attr.Name == member {
			return attr, true
		}
	}
	if m, ok := d.Method(member); ok {
		return Member{Name: member, Kind: MethodMember, Type: m.Signature, Owner: d.Name}, true
	}
	return Member{}, false
}
