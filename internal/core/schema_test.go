package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name   string
	Age    *int64
	Score  float64
	Active bool
	Born   time.Time
}

func personSchema(t *testing.T, bindings ...core.Binding[*person]) *core.Schema[*person] {
	t.Helper()
	if len(bindings) == 0 {
		bindings = []core.Binding[*person]{
			core.Text("name", func(p *person, v string) { p.Name = v }).Named("Name"),
			core.Int("age", func(p *person, v int64) { p.Age = &v }).Named("Age"),
		}
	}
	s, err := core.NewSchema("people", core.Alloc[person], bindings...)
	require.NoError(t, err)
	return s
}

func TestNewSchema(t *testing.T) {
	s := personSchema(t,
		core.Text("name", func(p *person, v string) { p.Name = v }).Named("Name"),
		core.Float("score", func(p *person, v float64) { p.Score = v }).At(3),
		core.Bool("active", func(p *person, v bool) { p.Active = v }),
		core.Date("born", func(p *person, v time.Time) { p.Born = v }).Named("Born").WithPattern("02.01.2006"),
	)

	assert.Equal(t, "people", s.Name())
	assert.Equal(t, []string{"name", "score", "active", "born"}, s.Fields())

	b, ok := s.Binding("score")
	require.True(t, ok)
	assert.Equal(t, core.FieldFloat, b.Type)
	assert.Equal(t, 3, b.Index)
	assert.Empty(t, b.Name)

	b, ok = s.Binding("active")
	require.True(t, ok)
	assert.Equal(t, core.NoIndex, b.Index)

	b, _ = s.Binding("born")
	assert.Equal(t, "02.01.2006", b.Pattern)

	_, ok = s.Binding("missing")
	assert.False(t, ok)
}

func TestNewSchema_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		construct func() (*person, error)
		bindings  []core.Binding[*person]
	}{
		{
			name:      "nil constructor",
			construct: nil,
		},
		{
			name:      "empty field",
			construct: core.Alloc[person],
			bindings:  []core.Binding[*person]{core.Text("", setName)},
		},
		{
			name:      "duplicate field",
			construct: core.Alloc[person],
			bindings: []core.Binding[*person]{
				core.Text("name", setName).Named("A"),
				core.Text("name", setName).Named("B"),
			},
		},
		{
			name:      "name and index",
			construct: core.Alloc[person],
			bindings:  []core.Binding[*person]{core.Text("name", setName).Named("Name").At(0)},
		},
		{
			name:      "negative index",
			construct: core.Alloc[person],
			bindings:  []core.Binding[*person]{core.Text("name", setName).At(-2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.NewSchema("people", tt.construct, tt.bindings...)
			assert.ErrorIs(t, err, core.ErrInvalidBinding)
		})
	}
}

func TestMustSchema_Panics(t *testing.T) {
	assert.Panics(t, func() {
		core.MustSchema[*person]("people", nil)
	})
}

func TestSchema_BindingsIsCopy(t *testing.T) {
	s := personSchema(t)
	bs := s.Bindings()
	bs[0].Field = "changed"
	assert.Equal(t, []string{"name", "age"}, s.Fields())
}

func TestTypedSetter(t *testing.T) {
	b := core.Int("age", func(p *person, v int64) { p.Age = &v })
	p := &person{}

	require.NoError(t, b.Set(p, nil), "nil leaves the field untouched")
	assert.Nil(t, p.Age)

	require.NoError(t, b.Set(p, int64(41)))
	require.NotNil(t, p.Age)
	assert.Equal(t, int64(41), *p.Age)

	err := b.Set(p, "41")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTypeMismatch))
	assert.Contains(t, err.Error(), "int64")
}

func TestBind_Custom(t *testing.T) {
	var got any
	b := core.Bind("raw", core.FieldText, func(p *person, v any) error {
		got = v
		return nil
	})
	assert.Equal(t, core.NoIndex, b.Index)
	require.NoError(t, b.Set(&person{}, "x"))
	assert.Equal(t, "x", got)
}
