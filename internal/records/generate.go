package records

import (
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

var (
	strType  = typesystem.TCon{Name: config.StrTypeName}
	intType  = typesystem.TCon{Name: config.IntTypeName}
	noneType = typesystem.TCon{Name: config.NoneTypeName}
	typeType = typesystem.TCon{Name: config.TypeTypeName}
)

// NewTypeVar returns the self type variable of the record named name.
func NewTypeVar(name string) typesystem.TVar {
	return typesystem.TVar{Name: config.TypeVarPrefix + name, Bound: typesystem.TCon{Name: name}}
}

// OrderedDictOf builds collections.OrderedDict[key, value].
func OrderedDictOf(key, value typesystem.Type) typesystem.TApp {
	return typesystem.TApp{
		Constructor: typesystem.TCon{Name: config.OrderedDictName, Module: config.CollectionsModuleName},
		Args:        []typesystem.Type{key, value},
	}
}

// GenerateOps creates d's type variable and its five generated operations.
func GenerateOps(d *Descriptor) {
	tv := NewTypeVar(d.Name)
	union := d.FieldUnion()
	cls := typesystem.Param{Name: "cls", Type: typesystem.TType{Type: tv}}
	self := typesystem.Param{Name: "self"}

	newParams := []typesystem.Param{cls}
	for _, f := range d.Fields {
		newParams = append(newParams, typesystem.Param{Name: f.Name, Type: f.Type, HasDefault: f.HasDefault})
	}

	accepts := make([]typesystem.Param, len(d.Fields))
	for i, f := range d.Fields {
		accepts[i] = typesystem.Param{Name: f.Name, Type: f.Type, HasDefault: true}
	}

	lenFunc := typesystem.TFunc{
		Params:     []typesystem.Param{{Type: typesystem.TCon{Name: config.SizedTypeName}}},
		ReturnType: intType,
	}

	d.TVar = tv
	d.Ops = map[OpKind]typesystem.TFunc{
		OpNew: {
			Name:       config.NewMethodName,
			Owner:      d.Name,
			Params:     newParams,
			ReturnType: tv,
			Receiver:   typesystem.ReceiverClass,
		},
		OpMake: {
			Name:  config.MakeMethodName,
			Owner: d.Name,
			Params: []typesystem.Param{
				cls,
				{Name: "iterable", Type: typesystem.TApp{Constructor: typesystem.TCon{Name: config.IterableTypeName}, Args: []typesystem.Type{union}}},
				{Name: "new", HasDefault: true},
				{Name: config.LenFuncName, Type: lenFunc, HasDefault: true},
			},
			ReturnType:    tv,
			Receiver:      typesystem.ReceiverClass,
			IsClassMethod: true,
		},
		OpReplace: {
			Name:  config.ReplaceMethodName,
			Owner: d.Name,
			Params: []typesystem.Param{
				{Name: "self", Type: tv},
				{Name: "kwds", Type: union, Kind: typesystem.ParamVarKeyword, Accepts: accepts},
			},
			ReturnType: tv,
			Receiver:   typesystem.ReceiverInstance,
		},
		OpAsDict: {
			Name:       config.AsDictMethodName,
			Owner:      d.Name,
			Params:     []typesystem.Param{self},
			ReturnType: OrderedDictOf(strType, union),
			Receiver:   typesystem.ReceiverInstance,
		},
		OpGetNewArgs: {
			Name:       config.GetNewArgsMethodName,
			Owner:      d.Name,
			Params:     []typesystem.Param{self},
			ReturnType: typesystem.TTuple{Elements: d.FieldTypes()},
			Receiver:   typesystem.ReceiverInstance,
		},
	}
}
