package symbols

import (
	"strings"
	"sync"

	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// Singleton prelude table containing all built-in symbols
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in symbols.
// It is never mutated after initialization and is shared by every run.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

// NewSymbolTable creates a global scope that inherits from the prelude.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = GetPrelude()
	st.scopeType = ScopeGlobal
	return st
}

// ResetPrelude resets the prelude singleton (for testing only).
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeTable = nil
}

// builtinBases is the prelude class hierarchy. object is the implicit top.
var builtinBases = []struct {
	name  string
	bases []string
}{
	{config.ObjectTypeName, nil},
	{config.ComplexTypeName, nil},
	{config.FloatTypeName, []string{config.ComplexTypeName}},
	{config.IntTypeName, []string{config.FloatTypeName}},
	{config.BoolTypeName, []string{config.IntTypeName}},
	{config.NoneTypeName, nil},
	{config.TypeTypeName, nil},
	{config.CallableTypeName, nil},
	{config.IterableTypeName, nil},
	{config.SizedTypeName, nil},
	{config.SequenceTypeName, []string{config.IterableTypeName, config.SizedTypeName}},
	{config.StrTypeName, []string{config.SequenceTypeName}},
	{config.BytesTypeName, []string{config.SequenceTypeName}},
	{config.TupleTypeName, []string{config.SequenceTypeName}},
	{config.ListTypeName, []string{config.SequenceTypeName}},
	{config.SetTypeName, []string{config.IterableTypeName, config.SizedTypeName}},
	{config.FrozenSetTypeName, []string{config.IterableTypeName, config.SizedTypeName}},
	{config.DictTypeName, []string{config.IterableTypeName, config.SizedTypeName}},
	{config.OrderedDictTypeName, []string{config.DictTypeName}},
}

// builtinNames are the classes reachable without an import.
var builtinNames = []string{
	config.ObjectTypeName, config.IntTypeName, config.BoolTypeName, config.FloatTypeName,
	config.ComplexTypeName, config.StrTypeName, config.BytesTypeName, config.TupleTypeName,
	config.ListTypeName, config.DictTypeName, config.SetTypeName, config.FrozenSetTypeName,
	config.TypeTypeName,
}

// typingClasses are the typing names that denote ordinary classes.
var typingClasses = map[string]string{
	config.IterableTypeName: config.IterableTypeName,
	config.SequenceTypeName: config.SequenceTypeName,
	config.SizedTypeName:    config.SizedTypeName,
	config.CallableTypeName: config.CallableTypeName,
	"Tuple":                 config.TupleTypeName,
	"List":                  config.ListTypeName,
	"Dict":                  config.DictTypeName,
	"Set":                   config.SetTypeName,
	"FrozenSet":             config.FrozenSetTypeName,
	"Type":                  config.TypeTypeName,
	config.OrderedDictName:  config.OrderedDictTypeName,
}

// typingSpecialForms only make sense inside annotations (or as the record factory).
var typingSpecialForms = []string{
	config.UnionTypeName, config.OptionalTypeName, config.AnyTypeName, config.NamedTupleName,
}

func (st *SymbolTable) InitBuiltins() {
	for _, b := range builtinBases {
		st.DefineClass(&Class{Name: b.name, Bases: b.bases, Kind: BuiltinClass})
	}
	for _, name := range builtinNames {
		st.Define(name, instanceType(name), TypeSymbol, 0)
	}

	typing := make(map[string]Symbol)
	for alias, class := range typingClasses {
		typing[alias] = Symbol{Name: alias, Type: instanceType(class), Kind: TypeSymbol, OriginModule: config.TypingModuleName}
	}
	for _, name := range typingSpecialForms {
		typing[name] = Symbol{Name: name, Type: typesystem.TCon{Name: name}, Kind: SpecialFormSymbol, OriginModule: config.TypingModuleName}
	}
	st.DefineModule(config.TypingModuleName, typing)

	st.DefineModule(config.CollectionsModuleName, map[string]Symbol{
		config.OrderedDictName: {
			Name:         config.OrderedDictName,
			Type:         instanceType(config.OrderedDictTypeName),
			Kind:         TypeSymbol,
			OriginModule: config.CollectionsModuleName,
		},
	})

	// Programs are analysed as if they began with `from typing import *`.
	for name, sym := range typing {
		st.store[name] = sym
	}

	sized := typesystem.TCon{Name: config.SizedTypeName}
	st.Define(config.LenFuncName, typesystem.TFunc{
		Name:       config.LenFuncName,
		Params:     []typesystem.Param{{Name: "obj", Type: sized}},
		ReturnType: typesystem.TCon{Name: config.IntTypeName},
	}, FunctionSymbol, 0)
}

func instanceType(qualified string) typesystem.TCon {
	module, name := splitQualified(qualified)
	return typesystem.TCon{Name: name, Module: module}
}

func splitQualified(qualified string) (module, name string) {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return "", qualified
}
