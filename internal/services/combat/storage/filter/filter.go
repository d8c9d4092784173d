// Package filter translates AIP-160 filter expressions over combat events
// into SQL conditions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// EventDeclarations returns the identifiers a combat event filter may use.
func EventDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("category", filtering.TypeString),
		filtering.DeclareIdent("severity", filtering.TypeString),
		filtering.DeclareIdent("actor_id", filtering.TypeString),
		filtering.DeclareIdent("target_id", filtering.TypeString),
		filtering.DeclareIdent("seq", filtering.TypeInt),
		filtering.DeclareIdent("occurred_at", filtering.TypeTimestamp),
	)
}

// SQLCondition is a WHERE fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

var columns = map[string]string{
	"category":    "category",
	"severity":    "severity",
	"actor_id":    "actor_id",
	"target_id":   "target_id",
	"seq":         "seq",
	"occurred_at": "occurred_at",
}

var comparisons = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// ParseEventFilter parses a filter string. An empty filter yields an empty
// condition.
func ParseEventFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := EventDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translate(filter.CheckedExpr.Expr)
}

func translate(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	return translateCall(call.CallExpr)
}

func translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch fn := strings.Trim(call.Function, "_"); fn {
	case "&&", "AND":
		return join(call.Args, "AND")
	case "||", "OR":
		return join(call.Args, "OR")
	case "!", "NOT":
		if len(call.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translate(call.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: fmt.Sprintf("NOT (%s)", inner.Clause), Params: inner.Params}, nil
	case "==":
		return compare(call.Args, "=")
	default:
		if op, ok := comparisons[fn]; ok {
			return compare(call.Args, op)
		}
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func join(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translate(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	column, ok := columns[ident.IdentExpr.GetName()]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := value(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func value(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		switch c := kind.ConstExpr.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return c.StringValue, nil
		case *expr.Constant_Int64Value:
			return c.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return c.Uint64Value, nil
		case *expr.Constant_BoolValue:
			return c.BoolValue, nil
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", c)
		}
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() == "timestamp" && len(kind.CallExpr.GetArgs()) == 1 {
			return timestampMillis(kind.CallExpr.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

// timestampMillis converts timestamp("...") to the millisecond column format.
func timestampMillis(e *expr.Expr) (int64, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	s, ok := c.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, s.StringValue)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", s.StringValue)
	}
	return t.UTC().UnixMilli(), nil
}
