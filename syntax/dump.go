package syntax

import (
	"fmt"
	"strings"
)

// Dump renders an AST node as a parenthesized s-expression, ignoring source
// positions. Two trees are considered structurally identical if they
// produce identical Dump output; tests compare parser output this way
// instead of asserting on individual fields.
func Dump(n Node) string {
	switch v := n.(type) {
	case *Program:
		return fmt.Sprintf("(program %s %s)", Dump(v.Func), Dump(v.Main))
	case *FunctionDef:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = p.Name
		}
		return fmt.Sprintf("(fundef (%s) %s)", strings.Join(params, " "), Dump(v.Body))
	case *Block:
		parts := make([]string, len(v.Stmts))
		for i, s := range v.Stmts {
			parts[i] = Dump(s)
		}
		return fmt.Sprintf("(block %s)", strings.Join(parts, " "))
	case *AssignStmt:
		return fmt.Sprintf("(assign %s %s)", Dump(v.Target), Dump(v.Rhs))
	case *ReturnStmt:
		return fmt.Sprintf("(return %s)", Dump(v.Expr))
	case *ExprStmt:
		return fmt.Sprintf("(exprstmt %s)", Dump(v.Expr))
	case *IfStmt:
		if v.Else != nil {
			return fmt.Sprintf("(if %s %s %s)", Dump(v.Cond), Dump(v.Then), Dump(v.Else))
		}
		return fmt.Sprintf("(if %s %s)", Dump(v.Cond), Dump(v.Then))
	case *LoopStmt:
		return fmt.Sprintf("(for %s %s %s %s)", Dump(v.Init), Dump(v.Cond), Dump(v.Post), Dump(v.Body))
	case *NumberLit:
		return fmt.Sprintf("(num %s)", formatNumber(v.Value))
	case *StringLit:
		return fmt.Sprintf("(str %q)", v.Value)
	case *ArrayLit:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = Dump(e)
		}
		return fmt.Sprintf("(array %s)", strings.Join(parts, " "))
	case *Ident:
		if v.Index != nil {
			return fmt.Sprintf("(ident %s %s)", v.Name, Dump(v.Index))
		}
		return fmt.Sprintf("(ident %s)", v.Name)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", v.Op.Symbol(), Dump(v.L), Dump(v.R))
	case *BuiltinCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = Dump(a)
		}
		return fmt.Sprintf("(%s %s)", v.Name, strings.Join(parts, " "))
	case *MethodCall:
		return fmt.Sprintf("(methodcall %s %s)", Dump(v.Receiver), Dump(v.Call))
	case *MainCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = Dump(a)
		}
		return fmt.Sprintf("(maincall %s)", strings.Join(parts, " "))
	default:
		return fmt.Sprintf("(unknown %T)", n)
	}
}
