package core_test

import (
	"testing"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setName(p *person, v string) { p.Name = v }

func setAge(p *person, v int64) { p.Age = &v }

func setScore(p *person, v float64) { p.Score = v }

func TestMakeHeaderIndex(t *testing.T) {
	header := tabular.NewRow(0,
		core.TextCell("  Name "),
		core.NumericCell(7),
		core.TextCell("AGE"),
		core.EmptyCell,
		core.TextCell("name"),
		core.TextCell(`="Score"`),
	)

	idx := core.MakeHeaderIndex(header)
	assert.Equal(t, core.HeaderIndex{"name": 0, "7": 1, "age": 2, "score": 5}, idx)

	assert.Empty(t, core.MakeHeaderIndex(nil))
}

func TestMakeHeaderIndex_NonTextCells(t *testing.T) {
	header := tabular.NewRow(0,
		core.NumericCell(2024),
		core.NumericCell(1.5),
		core.BoolCell(true),
		core.NumericCell(-3),
	)
	assert.Equal(t, core.HeaderIndex{"2024": 0, "1.5": 1, "true": 2, "-3": 3}, core.MakeHeaderIndex(header))
}

func TestResolveHeader_NumericHeader(t *testing.T) {
	s := personSchema(t,
		core.Text("name", setName).Named("Name"),
		core.Float("score", setScore).Named("2024"),
	)
	header := tabular.NewRow(0, core.TextCell("Name"), core.NumericCell(2024))
	assert.Equal(t, core.ColumnMap{"name": 0, "score": 1}, core.ResolveHeader(s, header))
}

func TestResolveHeader(t *testing.T) {
	s := personSchema(t,
		core.Text("name", setName).Named("name"),
		core.Int("age", setAge).Named(" Age "),
		core.Float("score", setScore).Named("Score"),
	)

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		header := tabular.NewRow(0, tabular.Texts("NAME", "age")...)
		cols := core.ResolveHeader(s, header)
		assert.Equal(t, core.ColumnMap{"name": 0, "age": 1}, cols)
		assert.Equal(t, []string{"score"}, core.Unbound(s, cols))
	})

	t.Run("column order does not matter", func(t *testing.T) {
		header := tabular.NewRow(0, tabular.Texts("Score", "Other", "Age", "Name")...)
		cols := core.ResolveHeader(s, header)
		assert.Equal(t, core.ColumnMap{"name": 3, "age": 2, "score": 0}, cols)
		assert.Empty(t, core.Unbound(s, cols))
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		header := tabular.NewRow(0, tabular.Texts("Name", "Name", "Age")...)
		cols := core.ResolveHeader(s, header)
		assert.Equal(t, 0, cols["name"])
	})

	t.Run("idempotent", func(t *testing.T) {
		header := tabular.NewRow(0, tabular.Texts("Age", "Name")...)
		assert.Equal(t, core.ResolveHeader(s, header), core.ResolveHeader(s, header))
	})
}

func TestResolveHeader_IndexAndPosition(t *testing.T) {
	s := personSchema(t,
		core.Text("name", setName),
		core.Int("age", setAge).At(5),
		core.Float("score", setScore).Named("Score"),
	)

	header := tabular.NewRow(0, tabular.Texts("whatever", "Score")...)
	cols := core.ResolveHeader(s, header)
	assert.Equal(t, core.ColumnMap{"name": 0, "age": 5, "score": 1}, cols)
}

func TestResolveExplicit(t *testing.T) {
	s := personSchema(t)

	cols, err := core.ResolveExplicit(s, map[string]int{"name": 2, "age": 0})
	require.NoError(t, err)
	assert.Equal(t, core.ColumnMap{"name": 2, "age": 0}, cols)

	cols, err = core.ResolveExplicit(s, map[string]int{"age": 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, core.Unbound(s, cols))

	_, err = core.ResolveExplicit(s, map[string]int{"name": 0, "nope": 1})
	assert.ErrorIs(t, err, core.ErrFieldNotFound)
	assert.Contains(t, err.Error(), `"nope"`)

	_, err = core.ResolveExplicit(s, map[string]int{"name": -1})
	assert.ErrorIs(t, err, core.ErrInvalidBinding)
}
