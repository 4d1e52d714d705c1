package records

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// FieldSpec is a field as written in a declaration, before validation.
// Annotation is the evaluated annotation; a bare Union or Optional arrives
// as an unparameterized TCon of that name.
type FieldSpec struct {
	Name       string
	Annotation typesystem.Type
	HasDefault bool
	Default    typesystem.Type
	Token      token.Token
}

// FactoryFormInput is one of PairList, KeywordFields or ClassBody.
type FactoryFormInput interface {
	factoryForm()
}

// PairList is the [("name", type), ...] form.
type PairList struct {
	Pairs []FieldSpec
}

// KeywordFields is the name=type, ... form.
type KeywordFields struct {
	Fields []FieldSpec
}

// ClassBody is the annotated class-body form. Methods are kept as ordinary
// methods unless they redeclare generated members.
type ClassBody struct {
	Members []FieldSpec
	Methods []Method
}

func (PairList) factoryForm()      {}
func (KeywordFields) factoryForm() {}
func (ClassBody) factoryForm()     {}

const formConflictMessage = "must supply either a field list or keyword fields, not both"

// ParseFactoryCall normalizes a factory invocation into a validated field
// list. keywords are the call's keyword arguments besides the field list;
// when both are present the list wins and the keywords are reported.
func ParseFactoryCall(form FactoryFormInput, keywords []FieldSpec, factory string, tok token.Token) ([]Field, []*diagnostics.DiagnosticError) {
	var diags []*diagnostics.DiagnosticError

	switch f := form.(type) {
	case PairList:
		if len(keywords) > 0 {
			names := make([]string, len(keywords))
			for i, k := range keywords {
				names[i] = k.Name
			}
			diags = append(diags,
				diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, tok, "%s: %s", factory, formConflictMessage),
				diagnostics.NewWrongKeywordArgs(tok, factory, names),
			)
		}
		fields, fieldDiags := parsePairList(f)
		return fields, append(diags, fieldDiags...)
	case KeywordFields:
		return parseKeywordFields(KeywordFields{Fields: append(append([]FieldSpec{}, f.Fields...), keywords...)})
	case ClassBody:
		fields, _, fieldDiags := ParseClassBody(f)
		return fields, fieldDiags
	case nil:
		return parseKeywordFields(KeywordFields{Fields: keywords})
	default:
		panic(fmt.Sprintf("records: unknown factory form %T", form))
	}
}

func parsePairList(f PairList) ([]Field, []*diagnostics.DiagnosticError) {
	return validateFields(f.Pairs)
}

func parseKeywordFields(f KeywordFields) ([]Field, []*diagnostics.DiagnosticError) {
	return validateFields(f.Fields)
}

// ParseClassBody validates the annotated members of a class-body declaration
// and passes its methods through.
func ParseClassBody(body ClassBody) ([]Field, []Method, []*diagnostics.DiagnosticError) {
	fields, diags := validateFields(body.Members)
	return fields, body.Methods, diags
}

func validateFields(specs []FieldSpec) ([]Field, []*diagnostics.DiagnosticError) {
	var diags []*diagnostics.DiagnosticError
	fields := make([]Field, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for _, spec := range specs {
		if msg := checkFieldName(spec.Name, seen); msg != "" {
			diags = append(diags, diagnostics.NewError(diagnostics.ErrRecordFactoryArg, spec.Token, msg))
			continue
		}
		seen[spec.Name] = true

		typ := spec.Annotation
		if form, ok := BareSpecialForm(typ); ok {
			diags = append(diags, diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, spec.Token,
				"Invalid type annotation '%s' for field %s: %s", form, spec.Name, SpecialFormReason(form)))
			typ = typesystem.Unknown
		}
		if typ == nil {
			typ = typesystem.Unknown
		}

		fields = append(fields, Field{
			Name:       spec.Name,
			Type:       typ,
			HasDefault: spec.HasDefault,
			Default:    spec.Default,
			Order:      len(fields),
			Token:      spec.Token,
		})
	}
	return fields, diags
}

func checkFieldName(name string, seen map[string]bool) string {
	switch {
	case !isIdentifier(name):
		return fmt.Sprintf("Field name %q is not a valid identifier", name)
	case pythonKeywords[name]:
		return fmt.Sprintf("Field name %q is a keyword", name)
	case strings.HasPrefix(name, config.ReservedFieldPrefix):
		return fmt.Sprintf("Field names cannot start with an underscore: %q", name)
	case seen[name]:
		return fmt.Sprintf("Duplicate field name: %q", name)
	}
	return ""
}

// BareSpecialForm reports an annotation that names a typing special form
// without parameters (Union, Optional) or the record factory itself. None of
// them is usable as a field or parameter type.
func BareSpecialForm(t typesystem.Type) (string, bool) {
	c, ok := t.(typesystem.TCon)
	if !ok || c.Module != "" {
		return "", false
	}
	switch c.Name {
	case config.UnionTypeName, config.OptionalTypeName, config.NamedTupleName:
		return c.Name, true
	}
	return "", false
}

// SpecialFormReason explains why a bare special form is rejected.
func SpecialFormReason(form string) string {
	if form == config.NamedTupleName {
		return "NamedTuple is a record factory, not a type"
	}
	return form + " requires type parameters"
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true,
	"finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}
