package config

const ProgramFileExt = ".yaml"

// ProgramFileExtensions are all recognized program file extensions
var ProgramFileExtensions = []string{".yaml", ".yml"}

// Factory marker names
const (
	NamedTupleName      = "NamedTuple"
	TypingModuleName    = "typing"
	QualifiedNamedTuple = TypingModuleName + "." + NamedTupleName
)

// Module-qualified names
const (
	CollectionsModuleName = "collections"
	OrderedDictName       = "OrderedDict"
)

// ReservedFieldPrefix marks names a record field may not start with.
const ReservedFieldPrefix = "_"

// TypeVarPrefix prefixes the self TypeVar generated for each record type (_TX for X).
const TypeVarPrefix = "_T"

// Generated operation names
const (
	NewMethodName        = "__new__"
	MakeMethodName       = "_make"
	ReplaceMethodName    = "_replace"
	AsDictMethodName     = "_asdict"
	GetNewArgsMethodName = "__getnewargs__"
	InitMethodName       = "__init__"
	GetStateMethodName   = "__getstate__"
)

// Generated attribute names
const (
	FieldsAttrName        = "_fields"
	FieldDefaultsAttrName = "_field_defaults"
	FieldTypesAttrName    = "_field_types"
	SlotsAttrName         = "__slots__"
	DictAttrName          = "__dict__"
)

// Built-in type names
const (
	ObjectTypeName      = "object"
	IntTypeName         = "int"
	BoolTypeName        = "bool"
	FloatTypeName       = "float"
	ComplexTypeName     = "complex"
	StrTypeName         = "str"
	BytesTypeName       = "bytes"
	NoneTypeName        = "None"
	TupleTypeName       = "tuple"
	ListTypeName        = "list"
	DictTypeName        = "dict"
	SetTypeName         = "set"
	FrozenSetTypeName   = "frozenset"
	TypeTypeName        = "type"
	IterableTypeName    = "Iterable"
	SequenceTypeName    = "Sequence"
	SizedTypeName       = "Sized"
	CallableTypeName    = "Callable"
	OrderedDictTypeName = CollectionsModuleName + "." + OrderedDictName
	AnyTypeName         = "Any"
	UnionTypeName       = "Union"
	OptionalTypeName    = "Optional"
)

// Built-in function names
const (
	LenFuncName = "len"
)
