package symbols

import (
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// SymbolTable implements typesystem.Resolver.
var _ typesystem.Resolver = (*SymbolTable)(nil)

// IsSubclass reports whether sub derives from super through its bases.
// Every class derives from object.
func (s *SymbolTable) IsSubclass(sub, super string) bool {
	if sub == super || super == config.ObjectTypeName {
		return true
	}
	return s.isSubclass(sub, super, make(map[string]bool))
}

func (s *SymbolTable) isSubclass(sub, super string, visited map[string]bool) bool {
	if visited[sub] {
		return false
	}
	visited[sub] = true
	c, ok := s.FindClass(sub)
	if !ok {
		return false
	}
	for _, base := range c.Bases {
		if base == super || s.isSubclass(base, super, visited) {
			return true
		}
	}
	return false
}

// RecordFields returns the field types of a record class in canonical order.
func (s *SymbolTable) RecordFields(name string) ([]typesystem.Type, bool) {
	c, ok := s.FindClass(name)
	if !ok || c.Kind != RecordClass {
		return nil, false
	}
	return c.Fields, true
}

func (s *SymbolTable) IsStrictMode() bool {
	if s.strict {
		return true
	}
	return s.outer != nil && s.outer.IsStrictMode()
}

// IterableElement returns what iterating over t yields, consulting record layouts.
func (s *SymbolTable) IterableElement(t typesystem.Type) (typesystem.Type, error) {
	return typesystem.IterableElement(t, s)
}

// LookupAttribute finds a class-level attribute on name or its bases,
// depth-first, left to right. It returns the class that declared it.
func (s *SymbolTable) LookupAttribute(name, attr string) (typesystem.Type, *Class, bool) {
	return s.lookupAttribute(name, attr, make(map[string]bool))
}

func (s *SymbolTable) lookupAttribute(name, attr string, visited map[string]bool) (typesystem.Type, *Class, bool) {
	if visited[name] {
		return nil, nil, false
	}
	visited[name] = true
	c, ok := s.FindClass(name)
	if !ok {
		return nil, nil, false
	}
	if t, ok := c.Attributes[attr]; ok {
		return t, c, true
	}
	for _, base := range c.Bases {
		if t, owner, ok := s.lookupAttribute(base, attr, visited); ok {
			return t, owner, true
		}
	}
	return nil, nil, false
}
