package symbols

import (
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in classes, typing names, builtin functions
	ScopeGlobal                   // User code top-level
)

const (
	VariableSymbol    SymbolKind = iota // A name bound by assignment
	TypeSymbol                          // A class; Type holds the instance type
	FunctionSymbol                      // A def; Type holds the TFunc
	ModuleSymbol                        // An importable module (typing, collections)
	SpecialFormSymbol                   // Union, Optional, NamedTuple: only meaningful in annotations or as a factory
)

type Symbol struct {
	Name           string
	Type           typesystem.Type
	Kind           SymbolKind
	DefinitionLine int    // 0 for prelude symbols
	OriginModule   string // Module the symbol was imported from, if any
}

// IsClass reports whether the symbol names a class.
func (s Symbol) IsClass() bool {
	return s.Kind == TypeSymbol
}

type ClassKind int

const (
	BuiltinClass ClassKind = iota
	UserClass
	RecordClass
)

// Class is a node of the nominal class hierarchy.
type Class struct {
	Name  string
	Bases []string
	Kind  ClassKind

	// Attributes holds class-level members in declaration order.
	Attributes     map[string]typesystem.Type
	AttributeOrder []string

	// Fields are the record field types in canonical order (RecordClass only).
	Fields []typesystem.Type
}

// AddAttribute appends a class-level member, replacing an earlier one of the same name.
func (c *Class) AddAttribute(name string, t typesystem.Type) {
	if c.Attributes == nil {
		c.Attributes = make(map[string]typesystem.Type)
	}
	if _, ok := c.Attributes[name]; !ok {
		c.AttributeOrder = append(c.AttributeOrder, name)
	}
	c.Attributes[name] = t
}

// Instance returns the nominal instance type of the class.
func (c *Class) Instance() typesystem.TCon {
	return instanceType(c.Name)
}

// SymbolTable maps names to symbols in a chain of scopes ending at the
// prelude. Classes and module members live alongside names.
type SymbolTable struct {
	store     map[string]Symbol
	order     []string
	outer     *SymbolTable
	scopeType ScopeType

	classes map[string]*Class
	modules map[string]map[string]Symbol

	strict bool
}
