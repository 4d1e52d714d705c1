// symbols/symbol_table.go - Main symbol table entry point
//
// The table is split into focused files:
// - symbol_table_core.go: Symbol, Class and the SymbolTable struct
// - symbol_table_init.go: Prelude initialization (builtin classes, typing names, modules)
// - symbol_table_operations.go: Define/find for names, classes and module members
// - symbol_table_resolution.go: Class hierarchy queries (typesystem.Resolver)

package symbols
