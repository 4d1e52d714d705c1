package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/typesystem"
)

func TestPreludeHierarchy(t *testing.T) {
	st := NewSymbolTable()

	assert.True(t, st.IsSubclass("bool", "complex"))
	assert.True(t, st.IsSubclass("list", "Iterable"))
	assert.True(t, st.IsSubclass("str", "Sized"))
	assert.True(t, st.IsSubclass("collections.OrderedDict", "dict"))
	assert.True(t, st.IsSubclass("NoSuchClass", "object"))
	assert.False(t, st.IsSubclass("int", "bool"))
	assert.False(t, st.IsSubclass("str", "int"))
}

func TestTypingNamesAreVisible(t *testing.T) {
	st := NewSymbolTable()

	sym, ok := st.Find("NamedTuple")
	require.True(t, ok)
	assert.Equal(t, SpecialFormSymbol, sym.Kind)

	sym, ok = st.FindModuleMember("typing", "Iterable")
	require.True(t, ok)
	assert.True(t, sym.IsClass())
	assert.Equal(t, "Iterable", sym.Type.String())

	sym, ok = st.FindModuleMember("collections", "OrderedDict")
	require.True(t, ok)
	assert.Equal(t, "collections.OrderedDict", sym.Type.String())

	lenSym, ok := st.Find("len")
	require.True(t, ok)
	assert.Equal(t, FunctionSymbol, lenSym.Kind)
}

func TestRecordClassesAndAttributes(t *testing.T) {
	st := NewSymbolTable()
	intT := typesystem.TCon{Name: "int"}
	strT := typesystem.TCon{Name: "str"}

	base := &Class{Name: "baseClass", Bases: []string{"object"}, Kind: UserClass}
	base.AddAttribute("x", intT)
	base.AddAttribute("y", intT)
	st.DefineClass(base)
	st.DefineClass(&Class{Name: "X", Bases: []string{"baseClass", "tuple"}, Kind: RecordClass, Fields: []typesystem.Type{intT, strT}})

	fields, ok := st.RecordFields("X")
	require.True(t, ok)
	assert.Len(t, fields, 2)
	_, ok = st.RecordFields("baseClass")
	assert.False(t, ok)

	assert.True(t, st.IsSubclass("X", "Iterable"))
	assert.True(t, st.IsSubclass("X", "baseClass"))

	attr, owner, ok := st.LookupAttribute("X", "y")
	require.True(t, ok)
	assert.Equal(t, "int", attr.String())
	assert.Equal(t, "baseClass", owner.Name)
	assert.Equal(t, []string{"x", "y"}, owner.AttributeOrder)

	elem, err := st.IterableElement(typesystem.TCon{Name: "X"})
	require.NoError(t, err)
	assert.Equal(t, "Union[int, str]", elem.String())

	_, err = st.IterableElement(typesystem.TType{Type: typesystem.TCon{Name: "X"}})
	assert.Error(t, err)
}

func TestGlobalsKeepDefinitionOrder(t *testing.T) {
	st := NewSymbolTable()
	st.Define("b", typesystem.TCon{Name: "int"}, VariableSymbol, 1)
	st.Define("a", typesystem.TCon{Name: "str"}, VariableSymbol, 2)
	st.Define("b", typesystem.TCon{Name: "bool"}, VariableSymbol, 3)

	globals := st.Globals()
	require.Len(t, globals, 2)
	assert.Equal(t, "b", globals[0].Name)
	assert.Equal(t, "bool", globals[0].Type.String())
	assert.Equal(t, "a", globals[1].Name)

	// The prelude is not part of the user scope.
	_, inPrelude := st.Outer().Find("a")
	assert.False(t, inPrelude)
}

func TestStrictModeIsScoped(t *testing.T) {
	st := NewSymbolTable()
	assert.False(t, st.IsStrictMode())
	st.SetStrictMode(true)
	assert.True(t, st.IsStrictMode())
	assert.False(t, NewSymbolTable().IsStrictMode())
}
