package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
	"github.com/bawdo/squill/plugins/policy"
)

const policyUsage = "usage: plugin policy <table> <condition> | mask <table>.<col> <value> | deny <table> | off"

type policyMask struct {
	table, column string
	value         any
}

// policyRules accumulates the rules entered through `plugin policy`.
// Conditions are kept as text and parsed per relation so bare columns pick
// up the relation's alias.
type policyRules struct {
	conditions map[string][]string // table -> condition text
	denied     map[string]bool
	masks      []policyMask
}

func newPolicyRules() *policyRules {
	return &policyRules{
		conditions: make(map[string][]string),
		denied:     make(map[string]bool),
	}
}

func (r *policyRules) status() string {
	var parts []string
	tables := make([]string, 0, len(r.conditions))
	for t := range r.conditions {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		for _, c := range r.conditions[t] {
			parts = append(parts, fmt.Sprintf("%s: %s", t, c))
		}
	}
	denied := make([]string, 0, len(r.denied))
	for t := range r.denied {
		denied = append(denied, t)
	}
	sort.Strings(denied)
	for _, t := range denied {
		parts = append(parts, "deny "+t)
	}
	for _, m := range r.masks {
		parts = append(parts, fmt.Sprintf("mask %s.%s", m.table, m.column))
	}
	return strings.Join(parts, "; ")
}

// scoped returns a copy of the session whose bare column references are
// qualified by q.
func (s *Session) scoped(q nodes.Iden) *Session {
	c := *s
	c.qualifier = q
	return &c
}

// evaluate is the policy.Func for the accumulated rules.
func (s *Session) evaluate(rules *policyRules) policy.Func {
	return func(t plugins.TableRef) ([]nodes.Expr, error) {
		if rules.denied[t.Name] {
			return nil, fmt.Errorf("policy: access to %s denied", t.Name)
		}
		texts := rules.conditions[t.Name]
		if len(texts) == 0 {
			return nil, nil
		}
		scope := s.scoped(t.Qualifier)
		conds := make([]nodes.Expr, 0, len(texts))
		for _, text := range texts {
			cond, err := scope.parseExpression(text)
			if err != nil {
				return nil, fmt.Errorf("policy for %s: %w", t.Name, err)
			}
			conds = append(conds, cond)
		}
		return conds, nil
	}
}

// resolveColumns expands star projections for masks from the connected
// database's schema.
func (s *Session) resolveColumns(table string) ([]string, error) {
	if s.conn == nil {
		return nil, errors.New("not connected; list columns explicitly or connect first")
	}
	cols := s.conn.schemaColumns(table)
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns known for %s", table)
	}
	return cols, nil
}

// configurePolicy adds one rule to the policy plugin, enabling it on first
// use. Rules accumulate until `plugin policy off` or `plugin off policy`.
func configurePolicy(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	if rest == "" {
		return errors.New(policyUsage)
	}
	if _, enabled := s.plugins.get("policy"); !enabled || s.policy == nil {
		s.policy = newPolicyRules()
	}
	rules := s.policy

	head, tail, _ := strings.Cut(rest, " ")
	tail = strings.TrimSpace(tail)
	switch strings.ToLower(head) {
	case "off":
		s.plugins.deregister("policy")
		s.policy = nil
		_, _ = fmt.Fprintln(s.out, "  Policy disabled")
		return nil

	case "deny":
		tables := splitNames(tail)
		if len(tables) == 0 {
			return errors.New("usage: plugin policy deny <table> [table ...]")
		}
		for _, t := range tables {
			rules.denied[t] = true
		}
		_, _ = fmt.Fprintf(s.out, "  Policy: deny %s\n", strings.Join(tables, ", "))

	case "mask":
		ref, raw, ok := strings.Cut(tail, " ")
		table, col, qualified := strings.Cut(ref, ".")
		if !ok || !qualified || table == "" || col == "" {
			return errors.New("usage: plugin policy mask <table>.<col> <value>")
		}
		v, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		rules.masks = append(rules.masks, policyMask{table: table, column: col, value: v})
		_, _ = fmt.Fprintf(s.out, "  Policy: mask %s.%s\n", table, col)

	default:
		if !isIdentifier(head) || strings.Contains(head, ".") || tail == "" {
			return errors.New(policyUsage)
		}
		// Validate now so typos surface at configure time.
		if _, err := s.scoped(iden(head)).parseExpression(tail); err != nil {
			return fmt.Errorf("policy condition: %w", err)
		}
		rules.conditions[head] = append(rules.conditions[head], tail)
		_, _ = fmt.Fprintf(s.out, "  Policy: %s restricted by %s\n", head, tail)
	}

	s.plugins.register(pluginEntry{
		name: "policy",
		factory: func() plugins.Transformer {
			opts := []policy.Option{policy.WithColumnResolver(s.resolveColumns)}
			for _, m := range rules.masks {
				opts = append(opts, policy.WithMask(m.table, m.column, m.value))
			}
			return policy.New(s.evaluate(rules), opts...)
		},
		status: rules.status,
	})
	s.log.Debug("plugin enabled", "plugin", "policy", "rules", rules.status())
	return nil
}
