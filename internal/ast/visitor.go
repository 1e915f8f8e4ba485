package ast

// Visitor walks the AST. Enter returns false to prune the subtree; Leave is
// called regardless.
type Visitor interface {
	EnterBoolLiteral(*BoolLiteral) bool
	LeaveBoolLiteral(*BoolLiteral)

	EnterIntLiteral(*IntLiteral) bool
	LeaveIntLiteral(*IntLiteral)

	EnterStringLiteral(*StringLiteral) bool
	LeaveStringLiteral(*StringLiteral)

	EnterFilenameLiteral(*FilenameLiteral) bool
	LeaveFilenameLiteral(*FilenameLiteral)

	EnterListLiteral(*ListLiteral) bool
	LeaveListLiteral(*ListLiteral)

	EnterRecordLiteral(*RecordLiteral) bool
	LeaveRecordLiteral(*RecordLiteral)

	EnterNameReference(*NameReference) bool
	LeaveNameReference(*NameReference)

	EnterFieldAccess(*FieldAccess) bool
	LeaveFieldAccess(*FieldAccess)

	EnterFieldQuery(*FieldQuery) bool
	LeaveFieldQuery(*FieldQuery)

	EnterCall(*Call) bool
	LeaveCall(*Call)

	EnterBinaryOp(*BinaryOp) bool
	LeaveBinaryOp(*BinaryOp)

	EnterUnaryOp(*UnaryOp) bool
	LeaveUnaryOp(*UnaryOp)

	EnterConditional(*Conditional) bool
	LeaveConditional(*Conditional)

	EnterForeach(*Foreach) bool
	LeaveForeach(*Foreach)

	EnterFunctionLiteral(*FunctionLiteral) bool
	LeaveFunctionLiteral(*FunctionLiteral)

	EnterAction(*Action) bool
	LeaveAction(*Action)

	EnterFileListExpr(*FileListExpr) bool
	LeaveFileListExpr(*FileListExpr)

	EnterTypeDeclExpr(*TypeDeclExpr) bool
	LeaveTypeDeclExpr(*TypeDeclExpr)

	EnterCompoundExpression(*CompoundExpression) bool
	LeaveCompoundExpression(*CompoundExpression)

	EnterIdentifier(*Identifier) bool
	LeaveIdentifier(*Identifier)

	EnterTypeReference(*TypeReference) bool
	LeaveTypeReference(*TypeReference)

	EnterParameter(*Parameter) bool
	LeaveParameter(*Parameter)

	EnterArgument(*Argument) bool
	LeaveArgument(*Argument)

	EnterArguments(*Arguments) bool
	LeaveArguments(*Arguments)

	EnterValue(*Value) bool
	LeaveValue(*Value)
}

// BaseVisitor implements Visitor with "descend into everything, do
// nothing" defaults; embed it and override only the methods a concrete
// visitor cares about.
type BaseVisitor struct{}

func (BaseVisitor) EnterBoolLiteral(*BoolLiteral) bool             { return true }
func (BaseVisitor) LeaveBoolLiteral(*BoolLiteral)                  {}
func (BaseVisitor) EnterIntLiteral(*IntLiteral) bool               { return true }
func (BaseVisitor) LeaveIntLiteral(*IntLiteral)                    {}
func (BaseVisitor) EnterStringLiteral(*StringLiteral) bool         { return true }
func (BaseVisitor) LeaveStringLiteral(*StringLiteral)              {}
func (BaseVisitor) EnterFilenameLiteral(*FilenameLiteral) bool     { return true }
func (BaseVisitor) LeaveFilenameLiteral(*FilenameLiteral)          {}
func (BaseVisitor) EnterListLiteral(*ListLiteral) bool             { return true }
func (BaseVisitor) LeaveListLiteral(*ListLiteral)                  {}
func (BaseVisitor) EnterRecordLiteral(*RecordLiteral) bool         { return true }
func (BaseVisitor) LeaveRecordLiteral(*RecordLiteral)              {}
func (BaseVisitor) EnterNameReference(*NameReference) bool         { return true }
func (BaseVisitor) LeaveNameReference(*NameReference)              {}
func (BaseVisitor) EnterFieldAccess(*FieldAccess) bool             { return true }
func (BaseVisitor) LeaveFieldAccess(*FieldAccess)                  {}
func (BaseVisitor) EnterFieldQuery(*FieldQuery) bool               { return true }
func (BaseVisitor) LeaveFieldQuery(*FieldQuery)                    {}
func (BaseVisitor) EnterCall(*Call) bool                           { return true }
func (BaseVisitor) LeaveCall(*Call)                                {}
func (BaseVisitor) EnterBinaryOp(*BinaryOp) bool                   { return true }
func (BaseVisitor) LeaveBinaryOp(*BinaryOp)                        {}
func (BaseVisitor) EnterUnaryOp(*UnaryOp) bool                     { return true }
func (BaseVisitor) LeaveUnaryOp(*UnaryOp)                          {}
func (BaseVisitor) EnterConditional(*Conditional) bool             { return true }
func (BaseVisitor) LeaveConditional(*Conditional)                  {}
func (BaseVisitor) EnterForeach(*Foreach) bool                     { return true }
func (BaseVisitor) LeaveForeach(*Foreach)                          {}
func (BaseVisitor) EnterFunctionLiteral(*FunctionLiteral) bool     { return true }
func (BaseVisitor) LeaveFunctionLiteral(*FunctionLiteral)          {}
func (BaseVisitor) EnterAction(*Action) bool                       { return true }
func (BaseVisitor) LeaveAction(*Action)                            {}
func (BaseVisitor) EnterFileListExpr(*FileListExpr) bool           { return true }
func (BaseVisitor) LeaveFileListExpr(*FileListExpr)                {}
func (BaseVisitor) EnterTypeDeclExpr(*TypeDeclExpr) bool           { return true }
func (BaseVisitor) LeaveTypeDeclExpr(*TypeDeclExpr)                {}
func (BaseVisitor) EnterCompoundExpression(*CompoundExpression) bool {
	return true
}
func (BaseVisitor) LeaveCompoundExpression(*CompoundExpression) {}
func (BaseVisitor) EnterIdentifier(*Identifier) bool             { return true }
func (BaseVisitor) LeaveIdentifier(*Identifier)                  {}
func (BaseVisitor) EnterTypeReference(*TypeReference) bool       { return true }
func (BaseVisitor) LeaveTypeReference(*TypeReference)            {}
func (BaseVisitor) EnterParameter(*Parameter) bool               { return true }
func (BaseVisitor) LeaveParameter(*Parameter)                    {}
func (BaseVisitor) EnterArgument(*Argument) bool                 { return true }
func (BaseVisitor) LeaveArgument(*Argument)                      {}
func (BaseVisitor) EnterArguments(*Arguments) bool               { return true }
func (BaseVisitor) LeaveArguments(*Arguments)                    {}
func (BaseVisitor) EnterValue(*Value) bool                       { return true }
func (BaseVisitor) LeaveValue(*Value)                            {}
