package core_test

import (
	"testing"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	s := personSchema(t,
		core.Text("name", setName).Named("Name"),
		core.Int("age", setAge).Named("Age"),
		core.Float("score", setScore).Named("Score"),
	)

	book := tabular.NewBook()
	book.AddSheet("full",
		tabular.Texts("Age", "Name", "Score"),
		tabular.Texts("30", "Alice", "1.5"),
	)
	book.AddSheet("partial", tabular.Texts("NAME"))
	book.AddSheet("blank")

	previews, err := core.Preview(book, s, core.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, previews, 3)

	full := previews[0]
	assert.True(t, full.Found)
	assert.Equal(t, core.ColumnMap{"name": 1, "age": 0, "score": 2}, full.Columns)
	assert.Equal(t, []core.BoundColumn{
		{Field: "name", Column: 1, Header: "Name"},
		{Field: "age", Column: 0, Header: "Age"},
		{Field: "score", Column: 2, Header: "Score"},
	}, full.Bound)
	assert.Empty(t, full.Unbound)

	partial := previews[1]
	assert.Equal(t, 1, partial.SheetIndex)
	assert.True(t, partial.Found)
	assert.Equal(t, []string{"age", "score"}, partial.Unbound)

	blank := previews[2]
	assert.False(t, blank.Found)
	assert.Empty(t, blank.Bound)
	assert.Equal(t, []string{"name", "age", "score"}, blank.Unbound)
}

func TestPreview_Explicit(t *testing.T) {
	book := tabular.NewBook()
	book.AddSheet("data", tabular.Texts("x", "y"))

	opts := core.DefaultOptions()
	opts.Columns = map[string]int{"age": 1}

	previews, err := core.Preview(book, personSchema(t), opts)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.True(t, previews[0].Found)
	assert.Equal(t, []core.BoundColumn{{Field: "age", Column: 1}}, previews[0].Bound)
	assert.Equal(t, []string{"name"}, previews[0].Unbound)
}

func TestPreview_DoesNotMaterialize(t *testing.T) {
	calls := 0
	s := core.MustSchema("people", func() (*person, error) {
		calls++
		return &person{}, nil
	}, core.Text("name", setName).Named("Name"))

	book := tabular.NewBook()
	book.AddSheet("people", tabular.Texts("Name"), tabular.Texts("Alice"))

	_, err := core.Preview(book, s, core.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, calls)
}
