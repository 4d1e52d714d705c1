package analyzer

import (
	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/parser"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

var noneType = typesystem.TCon{Name: config.NoneTypeName}

// annotation evaluates a type annotation. A bare Union or Optional is
// returned as the special form itself so record fields can report it;
// use parameterAnnotation where that is not wanted. nil yields nil.
func (s *Session) annotation(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.NoneLiteral:
		return noneType
	case *ast.EllipsisLiteral:
		return typesystem.Unknown
	case *ast.StringLiteral:
		// Forward reference.
		inner, errs := parser.ParseExpression(e.Value, e.Token.Line)
		if len(errs) > 0 || inner == nil {
			s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, e.Token,
				"Invalid type annotation '%s': not a valid type expression", e.Value))
			return typesystem.Unknown
		}
		return s.annotation(inner)
	case *ast.Identifier, *ast.MemberExpression:
		sym, ok := s.lookupName(expr)
		if !ok {
			s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, expr.GetToken(),
				"Invalid type annotation '%s': name is not defined", exprName(expr)))
			return typesystem.Unknown
		}
		return s.symbolAsType(sym, expr)
	case *ast.IndexExpression:
		return s.subscriptAnnotation(e)
	}
	s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, expr.GetToken(),
		"Invalid type annotation '%s': not a type", describeExpr(expr)))
	return typesystem.Unknown
}

// parameterAnnotation is annotation with bare special forms rejected.
func (s *Session) parameterAnnotation(expr ast.Expression, param string) typesystem.Type {
	t := s.annotation(expr)
	if form, ok := records.BareSpecialForm(t); ok {
		s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, expr.GetToken(),
			"Invalid type annotation '%s' for %s: %s", form, param, records.SpecialFormReason(form)))
		return typesystem.Unknown
	}
	return t
}

func (s *Session) symbolAsType(sym symbols.Symbol, expr ast.Expression) typesystem.Type {
	switch sym.Kind {
	case symbols.TypeSymbol:
		return sym.Type
	case symbols.SpecialFormSymbol:
		if sym.Name == config.AnyTypeName {
			return typesystem.Unknown
		}
		return sym.Type
	case symbols.VariableSymbol:
		// A class bound to a second name.
		if tt, ok := sym.Type.(typesystem.TType); ok {
			return tt.Type
		}
	}
	s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, expr.GetToken(),
		"Invalid type annotation '%s': not a type", exprName(expr)))
	return typesystem.Unknown
}

func (s *Session) subscriptAnnotation(e *ast.IndexExpression) typesystem.Type {
	head := s.annotation(e.Left)
	c, ok := head.(typesystem.TCon)
	if !ok {
		return typesystem.Unknown
	}

	invalid := func(reason string) typesystem.Type {
		s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, e.Token,
			"Invalid type annotation '%s': %s", describeExpr(e), reason))
		return typesystem.Unknown
	}
	args := func() []typesystem.Type {
		out := make([]typesystem.Type, len(e.Indices))
		for i, idx := range e.Indices {
			out[i] = s.annotation(idx)
		}
		return out
	}

	switch c.QualifiedName() {
	case config.UnionTypeName:
		return typesystem.NormalizeUnion(args())
	case config.OptionalTypeName:
		if len(e.Indices) != 1 {
			return invalid("Optional takes exactly one parameter")
		}
		return typesystem.NormalizeUnion(append(args(), noneType))
	case config.NamedTupleName:
		return invalid("NamedTuple is not generic")
	case config.TupleTypeName:
		if len(e.Indices) == 2 {
			if _, ok := e.Indices[1].(*ast.EllipsisLiteral); ok {
				return typesystem.TApp{Constructor: c, Args: []typesystem.Type{s.annotation(e.Indices[0])}}
			}
		}
		if len(e.Indices) == 1 {
			if tl, ok := e.Indices[0].(*ast.TupleLiteral); ok && len(tl.Elements) == 0 {
				return typesystem.TTuple{}
			}
		}
		return typesystem.TTuple{Elements: args()}
	case config.TypeTypeName:
		if len(e.Indices) != 1 {
			return invalid("Type takes exactly one parameter")
		}
		return typesystem.TType{Type: s.annotation(e.Indices[0])}
	case config.CallableTypeName:
		return s.callableAnnotation(e, invalid)
	}
	return typesystem.TApp{Constructor: c, Args: args()}
}

func (s *Session) callableAnnotation(e *ast.IndexExpression, invalid func(string) typesystem.Type) typesystem.Type {
	if len(e.Indices) != 2 {
		return invalid("Callable takes a parameter list and a return type")
	}
	fn := typesystem.TFunc{ReturnType: s.annotation(e.Indices[1])}
	switch params := e.Indices[0].(type) {
	case *ast.ListLiteral:
		for _, p := range params.Elements {
			fn.Params = append(fn.Params, typesystem.Param{Type: s.annotation(p)})
		}
	case *ast.EllipsisLiteral:
		fn.Params = []typesystem.Param{
			{Name: "args", Kind: typesystem.ParamVarPositional},
			{Name: "kwargs", Kind: typesystem.ParamVarKeyword},
		}
	default:
		return invalid("the parameter list must be a list of types or ...")
	}
	return fn
}
