package analyzer

import (
	"errors"
	"log/slog"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/prettyprinter"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

// Session analyses one program: it declares record types through the
// registry, types expressions and checks every call.
type Session struct {
	table    *symbols.SymbolTable
	registry *records.Registry
	sink     *diagnostics.Sink
	logger   *slog.Logger

	TypeMap map[ast.Expression]typesystem.Type // Stores inferred types

	stmtErr error // first internal error of the current statement
}

func NewSession(table *symbols.SymbolTable, registry *records.Registry, sink *diagnostics.Sink, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		table:    table,
		registry: registry,
		sink:     sink,
		logger:   logger,
		TypeMap:  make(map[ast.Expression]typesystem.Type),
	}
}

// Analyze processes the program's statements in order. Internal errors
// abandon the statement they occur in; the rest of the program is still
// analysed and the errors are returned joined.
func (s *Session) Analyze(program *ast.Program) error {
	var errs []error
	for _, stmt := range program.Statements {
		s.stmtErr = nil
		s.statement(stmt)
		if s.stmtErr != nil {
			s.logger.Error("internal error", "line", stmt.GetToken().Line, "error", s.stmtErr)
			errs = append(errs, s.stmtErr)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) report(errs ...*diagnostics.DiagnosticError) {
	s.sink.Add(errs...)
}

func (s *Session) internal(err error) {
	if err != nil && s.stmtErr == nil {
		s.stmtErr = err
	}
}

func (s *Session) statement(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.AssignStatement:
		s.assign(st)
	case *ast.ExpressionStatement:
		s.typeOf(st.Expression)
	case *ast.ClassStatement:
		s.classStatement(st)
	case *ast.FunctionStatement:
		sig := s.signature(st, "")
		s.table.Define(st.Name.Value, sig, symbols.FunctionSymbol, st.Token.Line)
	}
}

func (s *Session) assign(st *ast.AssignStatement) {
	if call, ok := st.Value.(*ast.CallExpression); ok && s.isFactory(call.Function) {
		if d := s.factoryCall(call); d != nil {
			s.table.Define(st.Name.Value, d.Instance(), symbols.TypeSymbol, st.Token.Line)
			s.TypeMap[st.Value] = d.ClassObject()
			return
		}
		s.table.Define(st.Name.Value, typesystem.Unknown, symbols.VariableSymbol, st.Token.Line)
		return
	}
	s.table.Define(st.Name.Value, s.typeOf(st.Value), symbols.VariableSymbol, st.Token.Line)
}

// --- declarations ---

func (s *Session) classStatement(st *ast.ClassStatement) {
	bases := make([]string, 0, len(st.Bases))
	isRecord := false
	for _, b := range st.Bases {
		name := s.className(b)
		if name == "" {
			continue
		}
		bases = append(bases, name)
		if records.IsFactory(name) {
			isRecord = true
		} else if _, ok := s.registry.Lookup(name); ok {
			isRecord = true
		}
	}

	if isRecord {
		s.recordClass(st, bases)
		return
	}

	if len(bases) == 0 {
		bases = []string{config.ObjectTypeName}
	}
	class := &symbols.Class{Name: st.Name.Value, Bases: bases, Kind: symbols.UserClass}
	for _, f := range st.Fields {
		var t typesystem.Type
		if f.Annotation != nil {
			t = s.parameterAnnotation(f.Annotation, "attribute "+f.Name.Value)
		} else {
			t = s.typeOf(f.Default)
		}
		class.AddAttribute(f.Name.Value, t)
	}
	for _, m := range st.Methods {
		class.AddAttribute(m.Name.Value, s.signature(m, st.Name.Value))
	}
	s.table.DefineClass(class)
	s.table.Define(st.Name.Value, class.Instance(), symbols.TypeSymbol, st.Token.Line)
}

func (s *Session) recordClass(st *ast.ClassStatement, bases []string) {
	body := records.ClassBody{}
	for _, f := range st.Fields {
		if f.Annotation == nil {
			// Plain class attributes are not fields.
			s.logger.Debug("ignoring unannotated class attribute", "class", st.Name.Value, "name", f.Name.Value)
			continue
		}
		spec := records.FieldSpec{
			Name:       f.Name.Value,
			Annotation: s.annotation(f.Annotation),
			Token:      f.Token,
		}
		if f.Default != nil {
			spec.HasDefault = true
			spec.Default = s.typeOf(f.Default)
		}
		body.Members = append(body.Members, spec)
	}
	for _, m := range st.Methods {
		body.Methods = append(body.Methods, records.Method{
			Name:      m.Name.Value,
			Signature: s.signature(m, st.Name.Value),
			Token:     m.Token,
		})
	}

	d, diags, err := s.registry.ClassDeclaration(records.ClassDeclaration{
		Name:  st.Name.Value,
		Bases: bases,
		Body:  body,
		Token: st.Token,
	})
	s.report(diags...)
	if err != nil {
		s.internal(err)
		return
	}
	s.table.Define(st.Name.Value, d.Instance(), symbols.TypeSymbol, st.Token.Line)
}

// signature builds the TFunc of a def. owner is the enclosing class, empty
// for module-level functions.
func (s *Session) signature(fs *ast.FunctionStatement, owner string) typesystem.TFunc {
	sig := typesystem.TFunc{Name: fs.Name.Value, Owner: owner}
	for _, p := range fs.Parameters {
		param := typesystem.Param{Name: p.Name.Value, HasDefault: p.Default != nil}
		switch p.Kind {
		case ast.StarParameter:
			param.Kind = typesystem.ParamVarPositional
		case ast.DoubleStarParameter:
			param.Kind = typesystem.ParamVarKeyword
		}
		if p.Annotation != nil {
			param.Type = s.parameterAnnotation(p.Annotation, "parameter "+p.Name.Value)
		}
		sig.Params = append(sig.Params, param)
	}
	if fs.ReturnType != nil {
		sig.ReturnType = s.parameterAnnotation(fs.ReturnType, "return of "+fs.Name.Value)
	}

	if owner != "" {
		switch {
		case fs.HasDecorator("staticmethod"):
			sig.Receiver = typesystem.ReceiverNone
		case fs.HasDecorator("classmethod"):
			sig.Receiver = typesystem.ReceiverClass
			sig.IsClassMethod = true
		case fs.Name.Value == config.NewMethodName:
			sig.Receiver = typesystem.ReceiverClass
		default:
			sig.Receiver = typesystem.ReceiverInstance
		}
	}
	return sig
}

// --- names ---

// lookupName resolves a name or a module member (typing.NamedTuple).
func (s *Session) lookupName(expr ast.Expression) (symbols.Symbol, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return s.table.Find(e.Value)
	case *ast.MemberExpression:
		left, ok := e.Left.(*ast.Identifier)
		if !ok {
			return symbols.Symbol{}, false
		}
		if sym, ok := s.table.Find(left.Value); !ok || sym.Kind != symbols.ModuleSymbol {
			return symbols.Symbol{}, false
		}
		return s.table.FindModuleMember(left.Value, e.Member.Value)
	}
	return symbols.Symbol{}, false
}

// className returns the class a base expression names. The factory marker
// comes back as NamedTuple however it was spelled.
func (s *Session) className(expr ast.Expression) string {
	sym, ok := s.lookupName(expr)
	if !ok {
		s.report(diagnostics.NewErrorf(diagnostics.ErrInvalidAnnotation, expr.GetToken(),
			"Invalid base class '%s': name is not defined", exprName(expr)))
		return ""
	}
	if sym.Kind == symbols.SpecialFormSymbol && sym.Name == config.NamedTupleName {
		return config.NamedTupleName
	}
	switch t := s.symbolAsType(sym, expr).(type) {
	case typesystem.TCon:
		return t.QualifiedName()
	}
	return ""
}

func (s *Session) isFactory(expr ast.Expression) bool {
	sym, ok := s.lookupName(expr)
	return ok && sym.Kind == symbols.SpecialFormSymbol && sym.Name == config.NamedTupleName
}

// --- expressions ---

func (s *Session) typeOf(expr ast.Expression) typesystem.Type {
	if expr == nil {
		return typesystem.Unknown
	}
	t := s.inferType(expr)
	s.TypeMap[expr] = t
	return t
}

func (s *Session) inferType(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return typesystem.TCon{Name: config.IntTypeName}
	case *ast.FloatLiteral:
		return typesystem.TCon{Name: config.FloatTypeName}
	case *ast.StringLiteral:
		return typesystem.TCon{Name: config.StrTypeName}
	case *ast.BooleanLiteral:
		return typesystem.TCon{Name: config.BoolTypeName}
	case *ast.NoneLiteral:
		return noneType
	case *ast.EllipsisLiteral:
		return typesystem.Unknown
	case *ast.ListLiteral:
		elems := make([]typesystem.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = s.typeOf(el)
		}
		return typesystem.TApp{
			Constructor: typesystem.TCon{Name: config.ListTypeName},
			Args:        []typesystem.Type{typesystem.NormalizeUnion(elems)},
		}
	case *ast.TupleLiteral:
		elems := make([]typesystem.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = s.typeOf(el)
		}
		return typesystem.TTuple{Elements: elems}
	case *ast.Identifier:
		sym, ok := s.table.Find(e.Value)
		if !ok {
			return typesystem.Unknown
		}
		return symbolValue(sym)
	case *ast.MemberExpression:
		if sym, ok := s.lookupName(e); ok {
			return symbolValue(sym)
		}
		m, ok := s.member(s.typeOf(e.Left), e.Member.Value)
		if !ok {
			return typesystem.Unknown
		}
		return m.Type
	case *ast.IndexExpression:
		return s.indexType(e)
	case *ast.KeywordArgument:
		return s.typeOf(e.Value)
	case *ast.CallExpression:
		return s.callType(e)
	}
	return typesystem.Unknown
}

// symbolValue is the type of a name used as a value: classes evaluate to
// their class object.
func symbolValue(sym symbols.Symbol) typesystem.Type {
	if sym.Kind == symbols.TypeSymbol {
		return typesystem.TType{Type: sym.Type}
	}
	return sym.Type
}

func (s *Session) indexType(e *ast.IndexExpression) typesystem.Type {
	left := s.typeOf(e.Left)
	if _, ok := left.(typesystem.TType); ok {
		// A parameterized class used as a value, e.g. List[int].
		return typesystem.TType{Type: s.annotation(e)}
	}
	for _, idx := range e.Indices {
		s.typeOf(idx)
	}
	if len(e.Indices) != 1 {
		return typesystem.Unknown
	}
	if c, ok := left.(typesystem.TCon); ok {
		if d, ok := s.registry.Lookup(c.QualifiedName()); ok {
			left = typesystem.TTuple{Elements: d.FieldTypes()}
		}
	}
	switch l := left.(type) {
	case typesystem.TTuple:
		if lit, ok := e.Indices[0].(*ast.IntegerLiteral); ok {
			i := int(lit.Value)
			if i < 0 {
				i += len(l.Elements)
			}
			if i >= 0 && i < len(l.Elements) {
				return l.Elements[i]
			}
		}
		return typesystem.NormalizeUnion(l.Elements)
	case typesystem.TApp:
		if l.ConstructorName() == config.ListTypeName && len(l.Args) == 1 {
			return l.Args[0]
		}
	}
	return typesystem.Unknown
}

// member resolves attribute access on a value of type t.
func (s *Session) member(t typesystem.Type, name string) (records.Member, bool) {
	var class string
	switch v := t.(type) {
	case typesystem.TCon:
		class = v.QualifiedName()
	case typesystem.TType:
		if c, ok := v.Type.(typesystem.TCon); ok {
			class = c.QualifiedName()
		}
	case typesystem.TApp:
		class = v.ConstructorName()
	}
	if class == "" {
		return records.Member{}, false
	}
	if d, ok := s.registry.Lookup(class); ok {
		return s.registry.ResolveMember(d, name)
	}
	if at, owner, ok := s.table.LookupAttribute(class, name); ok {
		return records.Member{Name: name, Kind: records.InheritedMember, Type: at, Owner: owner.Name}, true
	}
	return records.Member{}, false
}

// --- calls ---

func (s *Session) callType(call *ast.CallExpression) typesystem.Type {
	if s.isFactory(call.Function) {
		if d := s.factoryCall(call); d != nil {
			return d.ClassObject()
		}
		return typesystem.Unknown
	}

	site := CallSite{Token: call.Token}
	sig, result, ok := s.callee(call.Function, &site)

	for _, arg := range call.Arguments {
		site.Positional = append(site.Positional, s.typeOf(arg))
	}
	for _, kw := range call.Keywords {
		site.Keywords = append(site.Keywords, KeywordArg{Name: kw.Name, Type: s.typeOf(kw.Value), Token: kw.Token})
	}
	if !ok {
		return result
	}

	ret, diags, err := CheckCall(sig, site, s.table)
	if err != nil {
		s.internal(err)
		return typesystem.Unknown
	}
	s.report(diags...)
	s.logger.Debug("checked call", "function", sig.QualifiedName(), "line", call.Token.Line, "result", ret.String(), "diagnostics", len(diags))
	if len(diags) > 0 || result == nil {
		return ret
	}
	return result
}

// callee determines the signature a call is checked against and fills in
// the receiver. result, when non-nil, overrides the signature's return type
// on success (constructors of ordinary classes). ok is false when the callee
// cannot be checked; result is then the call's type.
func (s *Session) callee(fn ast.Expression, site *CallSite) (sig typesystem.TFunc, result typesystem.Type, ok bool) {
	if me, isMember := fn.(*ast.MemberExpression); isMember {
		if _, isModule := s.lookupName(me); !isModule {
			return s.methodCallee(me, site)
		}
	}

	switch t := s.typeOf(fn).(type) {
	case typesystem.TType:
		return s.constructor(t, site)
	case typesystem.TFunc:
		return t, nil, true
	}
	return typesystem.TFunc{}, typesystem.Unknown, false
}

func (s *Session) methodCallee(me *ast.MemberExpression, site *CallSite) (typesystem.TFunc, typesystem.Type, bool) {
	left := s.typeOf(me.Left)
	m, found := s.member(left, me.Member.Value)
	s.TypeMap[me] = typesystem.Unknown
	if !found {
		return typesystem.TFunc{}, typesystem.Unknown, false
	}
	s.TypeMap[me] = m.Type
	sig, isFunc := m.Signature()
	if !isFunc {
		if tt, isType := m.Type.(typesystem.TType); isType {
			return s.constructor(tt, site)
		}
		return typesystem.TFunc{}, typesystem.Unknown, false
	}
	if m.Kind == records.OperationMember {
		sig.Owner = m.Owner
	}

	_, onClass := left.(typesystem.TType)
	switch {
	case sig.Receiver == typesystem.ReceiverNone:
	case me.Member.Value == config.NewMethodName:
		// cls is passed explicitly.
	case sig.Receiver == typesystem.ReceiverClass && onClass:
		site.Receiver = left
	case sig.Receiver == typesystem.ReceiverClass:
		site.Receiver = typesystem.TType{Type: left}
	case !onClass:
		site.Receiver = left
	}
	return sig, nil, true
}

// constructor handles calling a class object.
func (s *Session) constructor(t typesystem.TType, site *CallSite) (typesystem.TFunc, typesystem.Type, bool) {
	c, isCon := t.Type.(typesystem.TCon)
	if !isCon {
		return typesystem.TFunc{}, typesystem.Unknown, false
	}
	if d, ok := s.registry.Lookup(c.QualifiedName()); ok {
		sig, _ := d.Op(records.OpNew)
		sig.Owner = d.Name
		site.Receiver = t
		return sig, nil, true
	}
	init, _, ok := s.table.LookupAttribute(c.QualifiedName(), config.InitMethodName)
	if sig, isFunc := init.(typesystem.TFunc); ok && isFunc {
		site.Receiver = c
		return sig, c, true
	}
	return typesystem.TFunc{}, c, false
}

// --- record factory ---

// factoryCall declares the record described by a NamedTuple(...) call.
func (s *Session) factoryCall(call *ast.CallExpression) *records.Descriptor {
	factory := exprName(call.Function)
	fc := records.FactoryCall{Factory: factory, Token: call.Token}

	if len(call.Arguments) > 0 {
		if name, ok := call.Arguments[0].(*ast.StringLiteral); ok {
			fc.Name = name.Value
		}
	}
	if len(call.Arguments) > 2 {
		s.report(diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, call.Token,
			"%s: expected at most 2 positional arguments, got %d", factory, len(call.Arguments)))
	}
	if len(call.Arguments) > 1 {
		if pairs, ok := s.fieldPairs(call.Arguments[1], factory); ok {
			fc.Form = records.PairList{Pairs: pairs}
		}
	}
	for _, kw := range call.Keywords {
		fc.Keywords = append(fc.Keywords, records.FieldSpec{
			Name:       kw.Name,
			Annotation: s.annotation(kw.Value),
			Token:      kw.Token,
		})
	}

	d, diags, err := s.registry.FactoryCall(fc)
	s.report(diags...)
	if err != nil {
		s.internal(err)
		return nil
	}
	return d
}

// fieldPairs reads a [("name", type), ...] list (a tuple of pairs works too).
func (s *Session) fieldPairs(expr ast.Expression, factory string) ([]records.FieldSpec, bool) {
	var elems []ast.Expression
	switch l := expr.(type) {
	case *ast.ListLiteral:
		elems = l.Elements
	case *ast.TupleLiteral:
		elems = l.Elements
	default:
		s.report(diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, expr.GetToken(),
			"%s: the field list must be a list of (name, type) pairs", factory))
		return nil, false
	}

	pairs := make([]records.FieldSpec, 0, len(elems))
	for _, el := range elems {
		pair, ok := el.(*ast.TupleLiteral)
		if !ok || len(pair.Elements) != 2 {
			s.report(diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, el.GetToken(),
				"%s: each field must be a (name, type) pair, got %s", factory, describeExpr(el)))
			continue
		}
		name, ok := pair.Elements[0].(*ast.StringLiteral)
		if !ok {
			s.report(diagnostics.NewErrorf(diagnostics.ErrRecordFactoryArg, pair.Elements[0].GetToken(),
				"%s: field names must be strings, got %s", factory, describeExpr(pair.Elements[0])))
			continue
		}
		pairs = append(pairs, records.FieldSpec{
			Name:       name.Value,
			Annotation: s.annotation(pair.Elements[1]),
			Token:      pair.Token,
		})
	}
	return pairs, true
}

func exprName(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.MemberExpression:
		return exprName(e.Left) + "." + e.Member.Value
	}
	return describeExpr(expr)
}

func describeExpr(expr ast.Expression) string {
	return prettyprinter.FormatExpression(expr)
}
