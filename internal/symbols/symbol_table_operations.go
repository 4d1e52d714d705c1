package symbols

import (
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		store:     make(map[string]Symbol),
		scopeType: ScopeGlobal,
		classes:   make(map[string]*Class),
		modules:   make(map[string]map[string]Symbol),
	}
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsGlobalScope returns true if this symbol table is the user top-level scope.
func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

// SetStrictMode toggles union-to-member narrowing for assignability checks.
func (s *SymbolTable) SetStrictMode(strict bool) {
	s.strict = strict
}

// Define binds name in this scope. Redefinition keeps the original position
// in Globals order.
func (s *SymbolTable) Define(name string, t typesystem.Type, kind SymbolKind, line int) {
	if _, ok := s.store[name]; !ok {
		s.order = append(s.order, name)
	}
	s.store[name] = Symbol{Name: name, Type: t, Kind: kind, DefinitionLine: line}
}

// DefineSymbol binds a symbol as-is (used for aliases of existing symbols).
func (s *SymbolTable) DefineSymbol(sym Symbol) {
	if _, ok := s.store[sym.Name]; !ok {
		s.order = append(s.order, sym.Name)
	}
	s.store[sym.Name] = sym
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	if !ok && s.outer != nil {
		return s.outer.Find(name)
	}
	return sym, ok
}

// IsDefined checks if a symbol is defined in the current or outer scopes.
func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.Find(name)
	return ok
}

// Globals returns the symbols defined in this scope, in definition order.
func (s *SymbolTable) Globals() []Symbol {
	out := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.store[name])
	}
	return out
}

// DefineClass registers a class node. A later definition of the same name
// replaces the earlier one.
func (s *SymbolTable) DefineClass(c *Class) {
	s.classes[c.Name] = c
}

// FindClass looks a class up by qualified name.
func (s *SymbolTable) FindClass(name string) (*Class, bool) {
	c, ok := s.classes[name]
	if !ok && s.outer != nil {
		return s.outer.FindClass(name)
	}
	return c, ok
}

func (s *SymbolTable) DefineModule(name string, members map[string]Symbol) {
	s.modules[name] = members
	s.store[name] = Symbol{Name: name, Type: typesystem.TCon{Name: "module"}, Kind: ModuleSymbol}
}

// FindModuleMember resolves module.member (typing.NamedTuple, collections.OrderedDict).
func (s *SymbolTable) FindModuleMember(module, member string) (Symbol, bool) {
	if members, ok := s.modules[module]; ok {
		sym, ok := members[member]
		return sym, ok
	}
	if s.outer != nil {
		return s.outer.FindModuleMember(module, member)
	}
	return Symbol{}, false
}
