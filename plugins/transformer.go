// Package plugins defines the Transformer interface for statement middleware.
package plugins

import "github.com/bawdo/squill/nodes"

// Transformer is the interface that statement transformation plugins
// implement. Managers hand each transformer a private clone, so a
// transformer may modify its argument in place and return it.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error)
	TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}
