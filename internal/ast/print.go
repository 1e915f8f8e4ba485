package ast

import "strconv"

// Printable is implemented by every node: PrettyPrint emits syntactically
// valid Fabrique source.
type Printable interface {
	PrettyPrint(p Printer, indent int)
}

func (n *BoolLiteral) PrettyPrint(p Printer, indent int) {
	if n.Value {
		p.Write(LiteralStyle, "true")
	} else {
		p.Write(LiteralStyle, "false")
	}
}

func (n *IntLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(LiteralStyle, strconv.Itoa(n.Value))
}

func (n *StringLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(LiteralStyle, strconv.Quote(n.Value))
}

func (n *FilenameLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(FilenameStyle, n.Value)
}

func (n *ListLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(Plain, "[")
	for i, e := range n.Elements {
		if i > 0 {
			p.Write(Plain, ", ")
		}
		e.(Printable).PrettyPrint(p, indent)
	}
	p.Write(Plain, "]")
}

func (n *RecordLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(Plain, "{ ")
	for _, f := range n.Fields {
		f.PrettyPrint(p, indent)
		p.Write(Plain, "; ")
	}
	p.Write(Plain, "}")
}

func (n *NameReference) PrettyPrint(p Printer, indent int) {
	p.Write(ReferenceStyle, n.Name)
}

func (n *FieldAccess) PrettyPrint(p Printer, indent int) {
	n.Base.(Printable).PrettyPrint(p, indent)
	p.Write(OperatorStyle, ".")
	p.Write(ReferenceStyle, n.Field)
}

func (n *FieldQuery) PrettyPrint(p Printer, indent int) {
	n.Base.(Printable).PrettyPrint(p, indent)
	p.Write(OperatorStyle, ".")
	p.Write(ReferenceStyle, n.Field)
	p.Write(OperatorStyle, " ? ")
	n.Default.(Printable).PrettyPrint(p, indent)
}

func (n *Call) PrettyPrint(p Printer, indent int) {
	n.Function.(Printable).PrettyPrint(p, indent)
	n.Args.PrettyPrint(p, indent)
}

func (n *BinaryOp) PrettyPrint(p Printer, indent int) {
	n.LHS.(Printable).PrettyPrint(p, indent)
	p.Write(OperatorStyle, " "+n.Op.String()+" ")
	n.RHS.(Printable).PrettyPrint(p, indent)
}

func (n *UnaryOp) PrettyPrint(p Printer, indent int) {
	p.Write(OperatorStyle, n.Op.String())
	n.Operand.(Printable).PrettyPrint(p, indent)
}

func (n *Conditional) PrettyPrint(p Printer, indent int) {
	p.Write(DefinitionStyle, "if ")
	n.Condition.(Printable).PrettyPrint(p, indent)
	p.Write(DefinitionStyle, " then ")
	n.Then.(Printable).PrettyPrint(p, indent)
	p.Write(DefinitionStyle, " else ")
	n.Else.(Printable).PrettyPrint(p, indent)
}

func (n *Foreach) PrettyPrint(p Printer, indent int) {
	p.Write(DefinitionStyle, "foreach ")
	p.Write(ReferenceStyle, n.Var.Name)
	if n.VarType != nil {
		p.Write(OperatorStyle, ":")
		n.VarType.PrettyPrint(p, indent)
	}
	p.Write(OperatorStyle, " <= ")
	n.Source.(Printable).PrettyPrint(p, indent)
	p.Write(DefinitionStyle, " in ")
	n.Body.(Printable).PrettyPrint(p, indent)
}

func (n *FunctionLiteral) PrettyPrint(p Printer, indent int) {
	p.Write(DefinitionStyle, "function(")
	for i, param := range n.Params {
		if i > 0 {
			p.Write(Plain, ", ")
		}
		param.PrettyPrint(p, indent)
	}
	p.Write(Plain, ")")
	if n.ResultType != nil {
		p.Write(OperatorStyle, ": ")
		n.ResultType.PrettyPrint(p, indent)
	}
	p.Write(Plain, " ")
	n.Body.(Printable).PrettyPrint(p, indent)
}

func (n *Action) PrettyPrint(p Printer, indent int) {
	p.Write(ActionStyle, "action(")
	for i, e := range n.CommandArgs {
		if i > 0 {
			p.Write(Plain, " ")
		}
		e.(Printable).PrettyPrint(p, indent)
	}
	for _, param := range n.Params {
		p.Write(Plain, ", ")
		param.PrettyPrint(p, indent)
	}
	if len(n.Args.List) > 0 {
		p.Write(Plain, ", ")
		n.Args.PrettyPrint(p, indent)
	}
	p.Write(Plain, ")")
}

func (n *FileListExpr) PrettyPrint(p Printer, indent int) {
	p.Write(ActionStyle, "files(")
	for i, e := range n.Names {
		if i > 0 {
			p.Write(Plain, " ")
		}
		e.(Printable).PrettyPrint(p, indent)
	}
	if len(n.Args.List) > 0 {
		p.Write(Plain, ", ")
		n.Args.PrettyPrint(p, indent)
	}
	p.Write(Plain, ")")
}

func (n *TypeDeclExpr) PrettyPrint(p Printer, indent int) {
	p.Write(DefinitionStyle, "type ")
	p.Write(TypeStyle, n.Name)
	p.Write(OperatorStyle, " = ")
	n.Ref.PrettyPrint(p, indent)
}

func (n *CompoundExpression) PrettyPrint(p Printer, indent int) {
	p.Write(Plain, "{\n")
	for _, val := range n.Values {
		p.Indent(indent + 1)
		val.PrettyPrint(p, indent+1)
		p.Write(Plain, ";\n")
	}
	p.Indent(indent + 1)
	n.Result.(Printable).PrettyPrint(p, indent+1)
	p.Write(Plain, "\n")
	p.Indent(indent)
	p.Write(Plain, "}")
}

func (i *Identifier) PrettyPrint(p Printer, indent int) {
	p.Write(ReferenceStyle, i.Name)
}

func (t *TypeReference) PrettyPrint(p Printer, indent int) {
	p.Write(TypeStyle, t.Name)
	if len(t.Params) > 0 {
		p.Write(OperatorStyle, "[")
		for i, param := range t.Params {
			if i > 0 {
				p.Write(Plain, ", ")
			}
			param.PrettyPrint(p, indent)
		}
		p.Write(OperatorStyle, "]")
	}
}

func (param *Parameter) PrettyPrint(p Printer, indent int) {
	p.Write(ReferenceStyle, param.Name.Name)
	if param.Type != nil {
		p.Write(OperatorStyle, ":")
		param.Type.PrettyPrint(p, indent)
	}
	if param.DefaultValue != nil {
		p.Write(OperatorStyle, " = ")
		param.DefaultValue.(Printable).PrettyPrint(p, indent)
	}
}

func (a *Argument) PrettyPrint(p Printer, indent int) {
	if a.Name != "" {
		p.Write(ReferenceStyle, a.Name)
		p.Write(OperatorStyle, " = ")
	}
	a.Value.(Printable).PrettyPrint(p, indent)
}

func (args *Arguments) PrettyPrint(p Printer, indent int) {
	p.Write(Plain, "(")
	for i, a := range args.List {
		if i > 0 {
			p.Write(Plain, ", ")
		}
		a.PrettyPrint(p, indent)
	}
	p.Write(Plain, ")")
}

func (val *Value) PrettyPrint(p Printer, indent int) {
	p.Write(DefinitionStyle, val.Name.Name)
	if val.Type != nil {
		p.Write(OperatorStyle, ": ")
		val.Type.PrettyPrint(p, indent)
	}
	p.Write(OperatorStyle, " = ")
	val.Body.(Printable).PrettyPrint(p, indent)
}
