package nodes

// TableIndex names an index and, optionally, the table it belongs to.
// Whether the table is required or emitted depends on the dialect.
type TableIndex struct {
	Name  string
	Table Iden
}

// IndexType selects the index access method.
type IndexType uint8

const (
	IndexDefault IndexType = iota
	IndexBTree
	IndexHash
	IndexFullText
)

// IndexOrder is the sort direction of an index key part.
type IndexOrder uint8

const (
	IndexOrderDefault IndexOrder = iota
	IndexAsc
	IndexDesc
)

// IndexColumn is one key part. Prefix limits the indexed length; zero
// indexes the whole value.
type IndexColumn struct {
	Name   Iden
	Prefix int
	Order  IndexOrder
}

// IndexCreateStatement is the data container for a CREATE INDEX. Inside a
// CREATE TABLE it also renders PRIMARY KEY and UNIQUE constraints.
type IndexCreateStatement struct {
	Index       TableIndex
	Columns     []IndexColumn
	Primary     bool
	Unique      bool
	Type        IndexType
	IfNotExists bool
}

// NewIndexCreateStatement returns an empty CREATE INDEX.
func NewIndexCreateStatement() *IndexCreateStatement {
	return &IndexCreateStatement{}
}

// Clone returns an independent deep copy.
func (s *IndexCreateStatement) Clone() *IndexCreateStatement {
	c := *s
	if s.Columns != nil {
		c.Columns = make([]IndexColumn, len(s.Columns))
		copy(c.Columns, s.Columns)
	}
	return &c
}

// Validate implements Statement.
func (s *IndexCreateStatement) Validate() error {
	if s.Index.Name == "" {
		return Malformed("index create", "no index name")
	}
	if s.Index.Table == nil {
		return Malformed("index create", "no table")
	}
	if len(s.Columns) == 0 {
		return Malformed("index create", "no columns")
	}
	return nil
}

// IndexDropStatement is the data container for a DROP INDEX.
type IndexDropStatement struct {
	Index    TableIndex
	IfExists bool
}

// NewIndexDropStatement returns an empty DROP INDEX.
func NewIndexDropStatement() *IndexDropStatement {
	return &IndexDropStatement{}
}

// Clone returns a copy.
func (s *IndexDropStatement) Clone() *IndexDropStatement {
	c := *s
	return &c
}

// Validate implements Statement. The table is checked by dialects that
// scope index names per table.
func (s *IndexDropStatement) Validate() error {
	if s.Index.Name == "" {
		return Malformed("index drop", "no index name")
	}
	return nil
}
