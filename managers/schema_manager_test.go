package managers

import (
	"testing"

	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/nodes"
)

func fontTable() *TableCreateManager {
	return NewTableCreateManager().
		Table(testutil.FontTable).
		IfNotExists().
		Column(NewColumn(testutil.FontID).Integer().NotNull().PrimaryKey().AutoIncrement()).
		Column(NewColumn(testutil.FontName).String().NotNull()).
		Column(NewColumn(testutil.FontVariant).String(64).Default("regular"))
}

// --- ColumnBuilder ---

func TestColumnBuilderAccumulatesSpecs(t *testing.T) {
	t.Parallel()
	c := NewColumn(testutil.FontID).Integer().NotNull().PrimaryKey()
	def := c.Def()
	testutil.AssertEqual(t, def.Type.Kind, nodes.TypeInteger)
	testutil.AssertEqual(t, len(def.Specs), 2)
	if !def.Has(nodes.SpecPrimaryKey) {
		t.Error("expected a PRIMARY KEY spec")
	}
}

func TestColumnBuilderTypeSettersOverwrite(t *testing.T) {
	t.Parallel()
	def := NewColumn(testutil.FontName).Text().String(32).Def()
	testutil.AssertEqual(t, def.Type.Kind, nodes.TypeString)
	testutil.AssertEqual(t, def.Type.Length, 32)
}

func TestColumnDefIsASnapshot(t *testing.T) {
	t.Parallel()
	c := NewColumn(testutil.FontName).String()
	def := c.Def()
	c.NotNull()
	testutil.AssertEqual(t, len(def.Specs), 0)
}

// --- CREATE TABLE ---

func TestTableCreateManagerPerDialect(t *testing.T) {
	t.Parallel()
	m := fontTable()

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "CREATE TABLE IF NOT EXISTS `font` ( "+
		"`id` int NOT NULL PRIMARY KEY AUTO_INCREMENT, "+
		"`name` varchar(255) NOT NULL, "+
		"`variant` varchar(64) DEFAULT 'regular' )")

	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `CREATE TABLE IF NOT EXISTS "font" ( `+
		`"id" serial NOT NULL PRIMARY KEY, "name" varchar NOT NULL, "variant" varchar(64) DEFAULT 'regular' )`)

	got, err = m.Build(sqliteB)
	testutil.AssertSQL(t, got, err, "CREATE TABLE IF NOT EXISTS `font` ( "+
		"`id` integer NOT NULL PRIMARY KEY AUTOINCREMENT, `name` varchar NOT NULL, `variant` varchar(64) DEFAULT 'regular' )")
}

func TestTableCreateManagerConstraints(t *testing.T) {
	t.Parallel()
	m := NewTableCreateManager().
		Table(testutil.CharacterTable).
		Column(NewColumn(testutil.CharacterID).Integer().NotNull()).
		Column(NewColumn(testutil.CharacterCharacter).String()).
		Column(NewColumn(testutil.CharacterFontID).Integer()).
		PrimaryKey(testutil.CharacterID).
		Index(NewIndexCreateManager().Name("uq-character").Columns(testutil.CharacterCharacter).Unique()).
		ForeignKey(NewForeignKeyCreateManager().
			Name("fk-character-font").
			From(testutil.CharacterTable, testutil.CharacterFontID).
			To(testutil.FontTable, testutil.FontID).
			OnDelete(nodes.ActionCascade).
			OnUpdate(nodes.ActionRestrict))

	got, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `CREATE TABLE "character" ( `+
		`"id" integer NOT NULL, "character" varchar, "font_id" integer, `+
		`PRIMARY KEY ("id"), `+
		`CONSTRAINT "uq-character" UNIQUE ("character"), `+
		`CONSTRAINT "fk-character-font" FOREIGN KEY ("font_id") REFERENCES "font" ("id") ON DELETE CASCADE ON UPDATE RESTRICT )`)
}

func TestTableCreateManagerOptions(t *testing.T) {
	t.Parallel()
	m := NewTableCreateManager().
		Table(testutil.FontTable).
		Column(NewColumn(testutil.FontName).String().NotNull()).
		Engine("InnoDB").
		CharacterSet("utf8mb4").
		Collate("utf8mb4_unicode_ci")

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "CREATE TABLE `font` ( `name` varchar(255) NOT NULL ) "+
		"ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")

	_, err = m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestTableCreateManagerPartition(t *testing.T) {
	t.Parallel()
	m := NewTableCreateManager().
		Table(testutil.FontTable).
		Column(NewColumn(testutil.FontName).String().NotNull()).
		Partition(nodes.PartitionHash, testutil.FontName)

	got, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `CREATE TABLE "font" ( "name" varchar NOT NULL ) PARTITION BY HASH ("name")`)
	_, err = m.Build(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestTableCreateManagerWithoutColumnsIsMalformed(t *testing.T) {
	t.Parallel()
	_, err := NewTableCreateManager().Table(testutil.FontTable).Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

func TestTableCreateManagerCloneIsIndependent(t *testing.T) {
	t.Parallel()
	base := fontTable()
	fork := base.Clone().Column(NewColumn(testutil.FontLanguage).Char(2))
	testutil.AssertEqual(t, len(base.Statement.Columns), 3)
	testutil.AssertEqual(t, len(fork.Statement.Columns), 4)
}

// --- DROP / TRUNCATE / RENAME ---

func TestTableDropManager(t *testing.T) {
	t.Parallel()
	m := NewTableDropManager().Table(testutil.GlyphTable, testutil.CharacterTable).IfExists().Cascade()

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "DROP TABLE IF EXISTS `glyph`, `character` CASCADE")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `DROP TABLE IF EXISTS "glyph", "character" CASCADE`)
}

func TestTableTruncateManager(t *testing.T) {
	t.Parallel()
	m := NewTableTruncateManager().Table(testutil.FontTable)

	got, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `TRUNCATE TABLE "font"`)
	_, err = m.Build(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestTableRenameManager(t *testing.T) {
	t.Parallel()
	m := NewTableRenameManager().Table(testutil.FontTable, nodes.NewAlias("font_new"))

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "RENAME TABLE `font` TO `font_new`")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `ALTER TABLE "font" RENAME TO "font_new"`)
}

// --- ALTER TABLE ---

func TestTableAlterManagerAddColumn(t *testing.T) {
	t.Parallel()
	m := NewTableAlterManager().
		Table(testutil.FontTable).
		AddColumn(NewColumn(nodes.NewAlias("new_col")).Integer().NotNull().Default(100))

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "ALTER TABLE `font` ADD COLUMN `new_col` int NOT NULL DEFAULT 100")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `ALTER TABLE "font" ADD COLUMN "new_col" integer NOT NULL DEFAULT 100`)
}

func TestTableAlterManagerKeepsCallOrder(t *testing.T) {
	t.Parallel()
	m := NewTableAlterManager().
		Table(testutil.FontTable).
		DropColumn(testutil.FontVariant).
		RenameColumn(nodes.NewAlias("new_col"), nodes.NewAlias("new_column"))

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "ALTER TABLE `font` DROP COLUMN `variant`, RENAME COLUMN `new_col` TO `new_column`")
}

func TestTableAlterManagerModifyColumn(t *testing.T) {
	t.Parallel()
	m := NewTableAlterManager().
		Table(testutil.FontTable).
		ModifyColumn(NewColumn(nodes.NewAlias("new_col")).BigInteger().Null())

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "ALTER TABLE `font` MODIFY COLUMN `new_col` bigint NULL")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err,
		`ALTER TABLE "font" ALTER COLUMN "new_col" TYPE bigint, ALTER COLUMN "new_col" DROP NOT NULL`)
}

// --- Indexes ---

func glyphIndex() *IndexCreateManager {
	return NewIndexCreateManager().Name("idx-glyph-aspect").Table(testutil.GlyphTable).Columns(testutil.GlyphAspect)
}

func TestIndexCreateManager(t *testing.T) {
	t.Parallel()
	got, err := glyphIndex().Build(mysqlB)
	testutil.AssertSQL(t, got, err, "CREATE INDEX `idx-glyph-aspect` ON `glyph` (`aspect`)")
	got, err = glyphIndex().Build(postgresB)
	testutil.AssertSQL(t, got, err, `CREATE INDEX "idx-glyph-aspect" ON "glyph" ("aspect")`)
}

func TestIndexCreateManagerOptions(t *testing.T) {
	t.Parallel()
	m := NewIndexCreateManager().
		Name("idx-glyph-aspect").
		Table(testutil.GlyphTable).
		Column(nodes.IndexColumn{Name: testutil.GlyphAspect, Order: nodes.IndexDesc}).
		Unique().
		IfNotExists()

	got, err := m.Build(sqliteB)
	testutil.AssertSQL(t, got, err, "CREATE UNIQUE INDEX IF NOT EXISTS `idx-glyph-aspect` ON `glyph` (`aspect` DESC)")
	_, err = m.Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestIndexCreateManagerFullText(t *testing.T) {
	t.Parallel()
	m := NewIndexCreateManager().
		Name("idx-glyph-image").
		Table(testutil.GlyphTable).
		Column(nodes.IndexColumn{Name: testutil.GlyphImage, Prefix: 10}).
		FullText()

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "CREATE FULLTEXT INDEX `idx-glyph-image` ON `glyph` (`image`(10))")
	_, err = m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestIndexCreateManagerWithoutNameIsMalformed(t *testing.T) {
	t.Parallel()
	_, err := NewIndexCreateManager().Table(testutil.GlyphTable).Columns(testutil.GlyphAspect).Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

func TestIndexDropManager(t *testing.T) {
	t.Parallel()
	m := NewIndexDropManager().Name("idx-glyph-aspect").Table(testutil.GlyphTable)

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "DROP INDEX `idx-glyph-aspect` ON `glyph`")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `DROP INDEX "idx-glyph-aspect"`)

	got, err = m.Clone().IfExists().Build(sqliteB)
	testutil.AssertSQL(t, got, err, "DROP INDEX IF EXISTS `idx-glyph-aspect`")
	testutil.AssertEqual(t, m.Statement.IfExists, false)
}

// --- Foreign keys ---

func characterFontKey() *ForeignKeyCreateManager {
	return NewForeignKeyCreateManager().
		Name("fk-character-font").
		From(testutil.CharacterTable, testutil.CharacterFontID).
		To(testutil.FontTable, testutil.FontID).
		OnDelete(nodes.ActionCascade).
		OnUpdate(nodes.ActionCascade)
}

func TestForeignKeyCreateManager(t *testing.T) {
	t.Parallel()
	m := characterFontKey()

	got, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `ALTER TABLE "character" ADD CONSTRAINT "fk-character-font" `+
		`FOREIGN KEY ("font_id") REFERENCES "font" ("id") ON DELETE CASCADE ON UPDATE CASCADE`)
	_, err = m.Build(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestForeignKeyCreateManagerColumnMismatch(t *testing.T) {
	t.Parallel()
	m := characterFontKey().From(testutil.CharacterTable, testutil.CharacterID)
	_, err := m.Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

func TestForeignKeyDropManager(t *testing.T) {
	t.Parallel()
	m := NewForeignKeyDropManager().Name("fk-character-font").Table(testutil.CharacterTable)

	got, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "ALTER TABLE `character` DROP FOREIGN KEY `fk-character-font`")
	got, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `ALTER TABLE "character" DROP CONSTRAINT "fk-character-font"`)
}
