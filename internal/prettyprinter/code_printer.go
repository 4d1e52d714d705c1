package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/tuplecheck/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

var _ ast.Visitor = (*CodePrinter)(nil)

type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: width, column: 0}
}

// FormatExpression renders a single expression on one line.
func FormatExpression(expr ast.Expression) string {
	p := NewCodePrinterWithWidth(0)
	p.printExpr(expr)
	return p.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *CodePrinter) printExpr(expr ast.Expression) {
	if expr == nil {
		p.write("<???>")
		return
	}
	expr.Accept(p)
}

// printList prints items separated by ", ", breaking one item per line when
// the single-line form would overflow the line width.
func (p *CodePrinter) printList(open, close string, items []func()) {
	// Render once into a scratch buffer to measure the single-line form.
	saved, column, width := p.buf, p.column, p.lineWidth
	p.buf, p.lineWidth = bytes.Buffer{}, 0
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		item()
	}
	flat := p.buf.String()
	p.buf, p.column, p.lineWidth = saved, column, width

	if p.lineWidth == 0 || p.column+len(open)+len(flat)+len(close) <= p.lineWidth {
		p.write(open)
		p.write(flat)
		p.write(close)
		return
	}

	p.write(open)
	p.writeln()
	p.indent++
	for _, item := range items {
		p.writeIndent()
		item()
		p.write(",")
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write(close)
}

func (p *CodePrinter) exprItems(exprs []ast.Expression) []func() {
	items := make([]func(), len(exprs))
	for i, e := range exprs {
		e := e
		items[i] = func() { p.printExpr(e) }
	}
	return items
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	// Track column position
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	p.column = 0
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for i, stmt := range n.Statements {
		if _, isClass := stmt.(*ast.ClassStatement); isClass && i > 0 {
			p.writeln()
		}
		if stmt != nil {
			stmt.Accept(p)
		} else {
			p.write("<???>")
		}
		p.writeln()
	}
}

func (p *CodePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	p.VisitIdentifier(n.Name)
	p.write(" = ")
	p.printExpr(n.Value)
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression)
}

func (p *CodePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	for _, d := range n.Decorators {
		p.write("@" + d)
		p.writeln()
		p.writeIndent()
	}
	p.write("def ")
	p.VisitIdentifier(n.Name)

	items := make([]func(), len(n.Parameters))
	for i, param := range n.Parameters {
		param := param
		items[i] = func() { p.printParameter(param) }
	}
	p.printList("(", ")", items)

	if n.ReturnType != nil {
		p.write(" -> ")
		p.printExpr(n.ReturnType)
	}
	p.write(": ...")
}

func (p *CodePrinter) printParameter(param *ast.Parameter) {
	switch param.Kind {
	case ast.StarParameter:
		p.write("*")
	case ast.DoubleStarParameter:
		p.write("**")
	}
	p.VisitIdentifier(param.Name)
	if param.Annotation != nil {
		p.write(": ")
		p.printExpr(param.Annotation)
	}
	if param.Default != nil {
		if param.Annotation != nil {
			p.write(" = ")
		} else {
			p.write("=")
		}
		p.printExpr(param.Default)
	}
}

func (p *CodePrinter) VisitClassStatement(n *ast.ClassStatement) {
	p.write("class ")
	p.VisitIdentifier(n.Name)
	if len(n.Bases) > 0 {
		p.printList("(", ")", p.exprItems(n.Bases))
	}
	p.write(":")

	p.indent++
	if len(n.Fields) == 0 && len(n.Methods) == 0 {
		p.writeln()
		p.writeIndent()
		p.write("pass")
	}
	for _, f := range n.Fields {
		p.writeln()
		p.writeIndent()
		p.VisitIdentifier(f.Name)
		if f.Annotation != nil {
			p.write(": ")
			p.printExpr(f.Annotation)
		}
		if f.Default != nil {
			p.write(" = ")
			p.printExpr(f.Default)
		}
	}
	for _, m := range n.Methods {
		p.writeln()
		p.writeIndent()
		p.VisitFunctionStatement(m)
	}
	p.indent--
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	if n == nil {
		p.write("<???>")
		return
	}
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		p.write("True")
	} else {
		p.write("False")
	}
}

func (p *CodePrinter) VisitNoneLiteral(n *ast.NoneLiteral) {
	p.write("None")
}

func (p *CodePrinter) VisitEllipsisLiteral(n *ast.EllipsisLiteral) {
	p.write("...")
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.printList("[", "]", p.exprItems(n.Elements))
}

func (p *CodePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	if len(n.Elements) == 1 {
		p.write("(")
		p.printExpr(n.Elements[0])
		p.write(",)")
		return
	}
	p.printList("(", ")", p.exprItems(n.Elements))
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Left)
	p.write("[")
	for i, idx := range n.Indices {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(idx)
	}
	p.write("]")
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Left)
	p.write(".")
	p.VisitIdentifier(n.Member)
}

func (p *CodePrinter) VisitKeywordArgument(n *ast.KeywordArgument) {
	p.write(n.Name)
	p.write("=")
	p.printExpr(n.Value)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function)
	items := p.exprItems(n.Arguments)
	for _, kw := range n.Keywords {
		kw := kw
		items = append(items, func() { p.VisitKeywordArgument(kw) })
	}
	p.printList("(", ")", items)
}
