package ast

// Visitor walks every node kind the loader can produce.
type Visitor interface {
	VisitProgram(*Program)

	VisitAssignStatement(*AssignStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitFunctionStatement(*FunctionStatement)
	VisitClassStatement(*ClassStatement)

	VisitIdentifier(*Identifier)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitNoneLiteral(*NoneLiteral)
	VisitEllipsisLiteral(*EllipsisLiteral)
	VisitListLiteral(*ListLiteral)
	VisitTupleLiteral(*TupleLiteral)
	VisitIndexExpression(*IndexExpression)
	VisitMemberExpression(*MemberExpression)
	VisitKeywordArgument(*KeywordArgument)
	VisitCallExpression(*CallExpression)
}
