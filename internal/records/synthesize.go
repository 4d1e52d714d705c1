package records

import (
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// Declaration is everything the synthesizer needs to build one record type.
type Declaration struct {
	Name        string
	Bases       []string      // declared bases without the factory marker
	RecordBases []*Descriptor // the record types among Bases, left to right
	Fields      []Field       // newly declared, already validated
	Methods     []Method
	Token       token.Token
}

// Merge computes the canonical field order: inherited record fields (bases
// left to right, first base wins on a name clash) followed by new fields.
// A new field repeating an inherited name overrides its type and default in
// place. Bases are only read.
func Merge(bases []*Descriptor, declared []Field) ([]Field, []*diagnostics.DiagnosticError) {
	var merged []Field
	index := make(map[string]int)
	inherited := make(map[int]bool)

	for _, base := range bases {
		for _, f := range base.Fields {
			if _, dup := index[f.Name]; dup {
				continue
			}
			index[f.Name] = len(merged)
			inherited[len(merged)] = true
			merged = append(merged, f)
		}
	}

	overridden := make(map[int]bool)
	for _, f := range declared {
		if pos, ok := index[f.Name]; ok {
			merged[pos] = f
			overridden[pos] = true
			continue
		}
		index[f.Name] = len(merged)
		merged = append(merged, f)
	}

	var diags []*diagnostics.DiagnosticError
	lastDefault := ""
	for i := range merged {
		merged[i].Order = i
		f := merged[i]
		if f.HasDefault {
			lastDefault = f.Name
			continue
		}
		if lastDefault != "" && !inherited[i] && !overridden[i] {
			diags = append(diags, diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, f.Token,
				"Non-default field %q follows default field %q", f.Name, lastDefault))
		}
	}
	return merged, diags
}

// Synthesize builds a new descriptor for decl. A subclass of exactly one
// record that declares no fields shares that record's generated operations
// and type variable; anything else gets freshly generated ones.
func Synthesize(decl Declaration) (*Descriptor, []*diagnostics.DiagnosticError) {
	fields, diags := Merge(decl.RecordBases, decl.Fields)

	d := &Descriptor{
		Name:   decl.Name,
		Fields: fields,
		Bases:  append([]string(nil), decl.Bases...),
		Token:  decl.Token,
	}

	if len(decl.Fields) == 0 && len(decl.RecordBases) == 1 {
		base := decl.RecordBases[0]
		d.TVar = base.TVar
		d.Ops = make(map[OpKind]typesystem.TFunc, len(base.Ops))
		for k, sig := range base.Ops {
			d.Ops[k] = sig
		}
	} else {
		GenerateOps(d)
	}
	return d, diags
}
