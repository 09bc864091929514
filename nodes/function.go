package nodes

// FuncKind identifies a function.
type FuncKind uint8

const (
	FuncMax FuncKind = iota
	FuncMin
	FuncSum
	FuncAvg
	FuncCount
	FuncIfNull
	FuncCharLength
	FuncLower
	FuncUpper
	FuncCoalesce
	FuncCustom
)

// Function names a function. Built-in kinds render as keywords; a custom
// function's Name is quoted like any other identifier.
type Function struct {
	Kind FuncKind
	Name Iden
}

// Builtin reports whether the function is a recognized keyword.
func (f Function) Builtin() bool { return f.Kind != FuncCustom }

// NewFunc builds a call of fn with the given arguments.
func NewFunc(fn Function, args ...any) *FuncExpr {
	exprs := make([]Expr, len(args))
	for i, a := range args {
		exprs[i] = Operand(a)
	}
	e := &FuncExpr{Func: fn, Args: exprs}
	e.Predications.self = e
	e.Arithmetics.self = e
	e.Combinable.self = e
	return e
}

func builtin(kind FuncKind, args ...any) *FuncExpr {
	return NewFunc(Function{Kind: kind}, args...)
}

// CustomFunc calls a user-defined function.
func CustomFunc(name Iden, args ...any) *FuncExpr {
	return NewFunc(Function{Kind: FuncCustom, Name: name}, args...)
}

// Max creates MAX(expr).
func Max(expr any) *FuncExpr { return builtin(FuncMax, expr) }

// Min creates MIN(expr).
func Min(expr any) *FuncExpr { return builtin(FuncMin, expr) }

// Sum creates SUM(expr).
func Sum(expr any) *FuncExpr { return builtin(FuncSum, expr) }

// Avg creates AVG(expr).
func Avg(expr any) *FuncExpr { return builtin(FuncAvg, expr) }

// Count creates COUNT(expr). Pass Asterisk() for COUNT(*).
func Count(expr any) *FuncExpr { return builtin(FuncCount, expr) }

// CountDistinct creates COUNT(DISTINCT expr).
func CountDistinct(expr any) *FuncExpr {
	f := builtin(FuncCount, expr)
	f.Distinct = true
	return f
}

// IfNull creates IFNULL(expr, fallback); spelled COALESCE where IFNULL is missing.
func IfNull(expr, fallback any) *FuncExpr { return builtin(FuncIfNull, expr, fallback) }

// CharLength creates CHAR_LENGTH(expr).
func CharLength(expr any) *FuncExpr { return builtin(FuncCharLength, expr) }

// Lower creates LOWER(expr).
func Lower(expr any) *FuncExpr { return builtin(FuncLower, expr) }

// Upper creates UPPER(expr).
func Upper(expr any) *FuncExpr { return builtin(FuncUpper, expr) }

// Coalesce creates COALESCE(args...).
func Coalesce(args ...any) *FuncExpr { return builtin(FuncCoalesce, args...) }
