package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/squill/nodes"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising multi-char operators (!=, <>, >=, <=) and punctuation.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		next := byte(0)
		if i+1 < len(input) {
			next = input[i+1]
		}
		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '!' && next == '=', ch == '<' && next == '>', ch == '<' && next == '=', ch == '>' && next == '=':
			flush()
			tokens = append(tokens, string([]byte{ch, next}))
			i++
		case ch == '=' || ch == '>' || ch == '<':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '+' || ch == '/' || ch == '-':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '*':
			// A star glued to "t." is a table asterisk, not multiplication.
			if strings.HasSuffix(cur.String(), ".") {
				cur.WriteByte(ch)
				continue
			}
			flush()
			tokens = append(tokens, "*")
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a literal token to a Go value.
func parseValue(token string) (any, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'"), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

func isLiteral(token string) bool {
	_, err := parseValue(token)
	return err == nil
}

// isIdentifier reports whether token looks like a column or table name,
// optionally qualified.
func isIdentifier(token string) bool {
	if token == "" || token == "*" {
		return token == "*"
	}
	for i, r := range token {
		switch {
		case r == '_' || r == '.' || r == '*':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func iden(name string) nodes.Iden { return nodes.NewAlias(name) }

func idensOf(names []string) []nodes.Iden {
	out := make([]nodes.Iden, len(names))
	for i, n := range names {
		out[i] = iden(n)
	}
	return out
}

// splitNames splits "a, b c" into names, accepting commas and spaces.
func splitNames(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}

// resolveColRef turns "col", "t.col", "t.*" or "*" into a column expression.
// Qualifiers that name a registered alias stay as written.
func (s *Session) resolveColRef(ref string) (*nodes.ColumnExpr, error) {
	if ref == "*" {
		return nodes.NewColumnExpr(nodes.Asterisk()), nil
	}
	if !isIdentifier(ref) {
		return nil, fmt.Errorf("invalid column reference: %s", ref)
	}
	table, col, qualified := strings.Cut(ref, ".")
	if !qualified {
		if s.qualifier != nil {
			return nodes.TableColumn(s.qualifier, iden(ref)), nil
		}
		return nodes.Column(iden(ref)), nil
	}
	if table == "" || col == "" {
		return nil, fmt.Errorf("invalid column reference: %s", ref)
	}
	s.ensureTable(table)
	if col == "*" {
		return nodes.NewColumnExpr(nodes.TableAsterisk(iden(table))), nil
	}
	return nodes.TableColumn(iden(table), iden(col)), nil
}

var funcBuilders = map[string]func(args []nodes.Expr) (nodes.Expr, error){
	"count":       unary(func(a nodes.Expr) nodes.Expr { return nodes.Count(a) }),
	"sum":         unary(func(a nodes.Expr) nodes.Expr { return nodes.Sum(a) }),
	"avg":         unary(func(a nodes.Expr) nodes.Expr { return nodes.Avg(a) }),
	"min":         unary(func(a nodes.Expr) nodes.Expr { return nodes.Min(a) }),
	"max":         unary(func(a nodes.Expr) nodes.Expr { return nodes.Max(a) }),
	"upper":       unary(func(a nodes.Expr) nodes.Expr { return nodes.Upper(a) }),
	"lower":       unary(func(a nodes.Expr) nodes.Expr { return nodes.Lower(a) }),
	"char_length": unary(func(a nodes.Expr) nodes.Expr { return nodes.CharLength(a) }),
	"ifnull": func(args []nodes.Expr) (nodes.Expr, error) {
		if len(args) != 2 {
			return nil, errors.New("IFNULL takes two arguments")
		}
		return nodes.IfNull(args[0], args[1]), nil
	},
	"coalesce": func(args []nodes.Expr) (nodes.Expr, error) {
		if len(args) == 0 {
			return nil, errors.New("COALESCE needs at least one argument")
		}
		xs := make([]any, len(args))
		for i, a := range args {
			xs[i] = a
		}
		return nodes.Coalesce(xs...), nil
	},
}

func unary(fn func(nodes.Expr) nodes.Expr) func([]nodes.Expr) (nodes.Expr, error) {
	return func(args []nodes.Expr) (nodes.Expr, error) {
		if len(args) != 1 {
			return nil, errors.New("function takes one argument")
		}
		return fn(args[0]), nil
	}
}

var keywords = map[string]nodes.Keyword{
	"current_timestamp": nodes.KeywordCurrentTimestamp,
	"current_date":      nodes.KeywordCurrentDate,
	"current_time":      nodes.KeywordCurrentTime,
}

// parseAtom parses a literal, keyword, column reference, function call or
// parenthesised expression starting at pos.
func (s *Session) parseAtom(tokens []string, pos int) (nodes.Expr, int, error) {
	if pos >= len(tokens) {
		return nil, pos, errors.New("unexpected end of expression")
	}
	tok := tokens[pos]
	lower := strings.ToLower(tok)

	if tok == "(" {
		inner, next, err := s.parseArithExpr(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != ")" {
			return nil, next, errors.New("missing closing parenthesis")
		}
		return inner, next + 1, nil
	}
	if tok == "-" && pos+1 < len(tokens) && isLiteral(tokens[pos+1]) {
		v, err := parseValue("-" + tokens[pos+1])
		if err != nil {
			return nil, pos, err
		}
		return nodes.Val(v), pos + 2, nil
	}
	if kw, ok := keywords[lower]; ok {
		return nodes.Kw(kw), pos + 1, nil
	}
	if pos+1 < len(tokens) && tokens[pos+1] == "(" {
		if build, ok := funcBuilders[lower]; ok {
			args, next, err := s.parseArgs(tokens, pos+2)
			if err != nil {
				return nil, next, fmt.Errorf("%s: %w", strings.ToUpper(tok), err)
			}
			e, err := build(args)
			if err != nil {
				return nil, next, err
			}
			return e, next, nil
		}
		return nil, pos, fmt.Errorf("unknown function: %s", tok)
	}
	if isLiteral(tok) {
		v, _ := parseValue(tok)
		return nodes.Val(v), pos + 1, nil
	}
	col, err := s.resolveColRef(tok)
	if err != nil {
		return nil, pos, err
	}
	return col, pos + 1, nil
}

// parseArgs parses a comma separated argument list up to the closing
// parenthesis and returns the position after it.
func (s *Session) parseArgs(tokens []string, pos int) ([]nodes.Expr, int, error) {
	var args []nodes.Expr
	if pos < len(tokens) && tokens[pos] == ")" {
		return nil, pos + 1, nil
	}
	for {
		arg, next, err := s.parseArithExpr(tokens, pos)
		if err != nil {
			return nil, next, err
		}
		args = append(args, arg)
		if next >= len(tokens) {
			return nil, next, errors.New("missing closing parenthesis")
		}
		switch tokens[next] {
		case ",":
			pos = next + 1
		case ")":
			return args, next + 1, nil
		default:
			return nil, next, fmt.Errorf("unexpected token: %s", tokens[next])
		}
	}
}

var arithOps = map[string]nodes.BinOper{
	"+": nodes.OpAdd,
	"-": nodes.OpSub,
	"*": nodes.OpMul,
	"/": nodes.OpDiv,
}

// parseArithExpr parses additive expressions. Multiplication and division
// bind tighter.
func (s *Session) parseArithExpr(tokens []string, pos int) (nodes.Expr, int, error) {
	left, pos, err := s.parseTerm(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) && (tokens[pos] == "+" || tokens[pos] == "-") {
		op := arithOps[tokens[pos]]
		right, next, err := s.parseTerm(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		left, pos = nodes.NewBinaryExpr(left, op, right), next
	}
	return left, pos, nil
}

func (s *Session) parseTerm(tokens []string, pos int) (nodes.Expr, int, error) {
	left, pos, err := s.parseAtom(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) && (tokens[pos] == "*" || tokens[pos] == "/") {
		op := arithOps[tokens[pos]]
		right, next, err := s.parseAtom(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		left, pos = nodes.NewBinaryExpr(left, op, right), next
	}
	return left, pos, nil
}

// parseOperand parses a complete arithmetic expression from input.
func (s *Session) parseOperand(input string) (nodes.Expr, error) {
	tokens := tokenize(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}
	e, pos, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("unexpected token: %s", tokens[pos])
	}
	return e, nil
}

var comparisonOps = map[string]nodes.BinOper{
	"=":    nodes.OpEqual,
	"!=":   nodes.OpNotEqual,
	"<>":   nodes.OpNotEqual,
	">":    nodes.OpGreaterThan,
	">=":   nodes.OpGreaterThanOrEqual,
	"<":    nodes.OpSmallerThan,
	"<=":   nodes.OpSmallerThanOrEqual,
	"like": nodes.OpLike,
}

// exprPart is a run of tokens forming one condition, plus the combinator
// ("and", "or" or "") that follows it.
type exprPart struct {
	tokens     []string
	combinator string
}

// splitExpressionParts splits tokens on top-level AND/OR keywords, respecting
// parenthesised groups and BETWEEN ... AND ... ranges.
func splitExpressionParts(tokens []string) []exprPart {
	var parts []exprPart
	var cur []string
	depth := 0
	inBetween := false

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		switch {
		case lower == "(":
			depth++
		case lower == ")":
			depth--
		case depth > 0:
		case lower == "between":
			inBetween = true
		case lower == "and" && inBetween:
			inBetween = false
		case lower == "and" || lower == "or":
			parts = append(parts, exprPart{tokens: cur, combinator: lower})
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		parts = append(parts, exprPart{tokens: cur})
	}
	return parts
}

// parseExpression parses conditions joined by AND/OR with optional NOT
// prefixes. AND binds tighter than OR.
func (s *Session) parseExpression(input string) (nodes.Expr, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty expression")
	}
	return s.parseConditionTokens(tokenize(input))
}

func (s *Session) parseConditionTokens(tokens []string) (nodes.Expr, error) {
	parts := splitExpressionParts(tokens)
	if len(parts) == 0 {
		return nil, errors.New("empty expression")
	}

	var ors []nodes.Expr
	var ands []nodes.Expr
	for _, p := range parts {
		cond, err := s.parseSingleCondition(p.tokens)
		if err != nil {
			return nil, err
		}
		ands = append(ands, cond)
		if p.combinator != "and" {
			ors = append(ors, collapse(nodes.OpAnd, ands))
			ands = nil
		}
	}
	if len(ands) > 0 {
		return nil, errors.New("dangling AND")
	}
	return collapse(nodes.OpOr, ors), nil
}

func collapse(op nodes.LogicalOper, conds []nodes.Expr) nodes.Expr {
	if len(conds) == 1 {
		return conds[0]
	}
	return nodes.NewChainExpr(op, conds...)
}

// parseSingleCondition handles a NOT prefix and fully parenthesised groups.
func (s *Session) parseSingleCondition(tokens []string) (nodes.Expr, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}
	if strings.ToLower(tokens[0]) == "not" {
		inner, err := s.parseSingleCondition(tokens[1:])
		if err != nil {
			return nil, err
		}
		return nodes.Not(inner), nil
	}
	if tokens[0] == "(" && closingParen(tokens, 0) == len(tokens)-1 {
		return s.parseConditionTokens(tokens[1 : len(tokens)-1])
	}
	return s.parseConditionFromTokens(tokens)
}

// closingParen returns the index of the parenthesis closing tokens[open].
func closingParen(tokens []string, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseConditionFromTokens parses `<expr> <op> <rhs>`.
func (s *Session) parseConditionFromTokens(tokens []string) (nodes.Expr, error) {
	if len(tokens) < 2 {
		return nil, errors.New("expected: <column> <operator> <value>")
	}
	left, pos, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos >= len(tokens) {
		return nil, errors.New("expected operator after expression")
	}

	op := strings.ToLower(tokens[pos])
	rest := tokens[pos+1:]
	if cmp, ok := comparisonOps[op]; ok {
		if len(rest) == 0 {
			return nil, errors.New("missing value after operator")
		}
		right, end, err := s.parseArithExpr(rest, 0)
		if err != nil {
			return nil, err
		}
		if end != len(rest) {
			return nil, fmt.Errorf("unexpected token: %s", rest[end])
		}
		return nodes.NewBinaryExpr(left, cmp, right), nil
	}

	switch op {
	case "is":
		return parseIsCondition(left, rest)
	case "in":
		return s.parseInCondition(left, rest, nodes.OpIn)
	case "between":
		return s.parseBetweenCondition(left, rest, nodes.OpBetween)
	case "not":
		if len(rest) == 0 {
			return nil, errors.New("expected LIKE, IN or BETWEEN after NOT")
		}
		switch strings.ToLower(rest[0]) {
		case "like":
			right, err := s.parseRemaining(rest[1:])
			if err != nil {
				return nil, err
			}
			return nodes.NewBinaryExpr(left, nodes.OpNotLike, right), nil
		case "in":
			return s.parseInCondition(left, rest[1:], nodes.OpNotIn)
		case "between":
			return s.parseBetweenCondition(left, rest[1:], nodes.OpNotBetween)
		}
		return nil, fmt.Errorf("unknown operator: not %s", rest[0])
	}
	return nil, fmt.Errorf("unknown operator: %s", op)
}

func (s *Session) parseRemaining(tokens []string) (nodes.Expr, error) {
	if len(tokens) == 0 {
		return nil, errors.New("missing value after operator")
	}
	e, end, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	if end != len(tokens) {
		return nil, fmt.Errorf("unexpected token: %s", tokens[end])
	}
	return e, nil
}

func parseIsCondition(left nodes.Expr, tokens []string) (nodes.Expr, error) {
	op := nodes.OpIs
	if len(tokens) > 0 && strings.ToLower(tokens[0]) == "not" {
		op = nodes.OpIsNot
		tokens = tokens[1:]
	}
	if len(tokens) != 1 {
		return nil, errors.New("expected: IS [NOT] NULL|TRUE|FALSE")
	}
	switch strings.ToLower(tokens[0]) {
	case "null":
		return nodes.NewBinaryExpr(left, op, nodes.Kw(nodes.KeywordNull)), nil
	case "true":
		return nodes.NewBinaryExpr(left, op, nodes.Val(true)), nil
	case "false":
		return nodes.NewBinaryExpr(left, op, nodes.Val(false)), nil
	}
	return nil, fmt.Errorf("expected NULL, TRUE or FALSE after IS, got %s", tokens[0])
}

func (s *Session) parseInCondition(left nodes.Expr, tokens []string, op nodes.BinOper) (nodes.Expr, error) {
	if len(tokens) < 2 || tokens[0] != "(" || tokens[len(tokens)-1] != ")" {
		return nil, errors.New("expected: IN (<value>, ...)")
	}
	args, end, err := s.parseArgs(tokens, 1)
	if err != nil {
		return nil, err
	}
	if end != len(tokens) {
		return nil, fmt.Errorf("unexpected token: %s", tokens[end])
	}
	if len(args) == 0 {
		return nil, errors.New("IN needs at least one value")
	}
	items := make([]any, len(args))
	for i, a := range args {
		items[i] = a
	}
	return nodes.NewBinaryExpr(left, op, nodes.Tuple(items...)), nil
}

func (s *Session) parseBetweenCondition(left nodes.Expr, tokens []string, op nodes.BinOper) (nodes.Expr, error) {
	and := -1
	for i, t := range tokens {
		if strings.ToLower(t) == "and" {
			and = i
			break
		}
	}
	if and <= 0 || and == len(tokens)-1 {
		return nil, errors.New("expected: BETWEEN <low> AND <high>")
	}
	low, err := s.parseRemaining(tokens[:and])
	if err != nil {
		return nil, err
	}
	high, err := s.parseRemaining(tokens[and+1:])
	if err != nil {
		return nil, err
	}
	return nodes.NewBinaryExpr(left, op, nodes.Tuple(low, high)), nil
}

// splitTopLevelCommas splits s on commas that are not inside parentheses
// or quotes.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// splitAlias separates a trailing "AS alias" from a projection.
func splitAlias(item string) (string, string) {
	tokens := strings.Fields(item)
	if n := len(tokens); n >= 3 && strings.EqualFold(tokens[n-2], "as") {
		idx := strings.LastIndex(strings.ToLower(item), " as ")
		return strings.TrimSpace(item[:idx]), tokens[n-1]
	}
	return item, ""
}
