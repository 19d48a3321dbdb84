package registry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/calc/internal/core/calc"
)

func noop(context.Context, []string) error { return nil }

func TestRegistry_RegisterLookupList(t *testing.T) {
	r := New(zerolog.Nop())
	r.Register(Descriptor{Name: "add", Description: "Add", Handler: HandlerFunc(noop)})
	r.Register(Descriptor{Name: "divide", Description: "Divide", Handler: HandlerFunc(noop)})
	r.Register(Descriptor{Name: "history", Description: "History", Handler: HandlerFunc(noop)})

	d, ok := r.Lookup("divide")
	require.True(t, ok)
	assert.Equal(t, "Divide", d.Description)

	_, ok = r.Lookup("modulo")
	assert.False(t, ok)

	assert.Equal(t, []Entry{
		{Name: "add", Description: "Add"},
		{Name: "divide", Description: "Divide"},
		{Name: "history", Description: "History"},
	}, r.List())
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_OverwriteWarns(t *testing.T) {
	var buf bytes.Buffer
	r := New(zerolog.New(&buf))

	r.Register(Descriptor{Name: "add", Description: "first", Handler: HandlerFunc(noop)})
	r.Register(Descriptor{Name: "subtract", Description: "sub", Handler: HandlerFunc(noop)})
	assert.NotContains(t, buf.String(), "overwriting")

	called := false
	r.Register(Descriptor{Name: "add", Description: "second", Handler: HandlerFunc(func(context.Context, []string) error {
		called = true
		return nil
	})})

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "overwriting")
	assert.Equal(t, 2, r.Len(), "count unchanged")
	assert.Equal(t, []Entry{
		{Name: "add", Description: "second"},
		{Name: "subtract", Description: "sub"},
	}, r.List())

	require.NoError(t, r.Dispatch(context.Background(), "add", nil))
	assert.True(t, called, "latest handler runs")
}

func TestRegistry_Dispatch(t *testing.T) {
	ctx := context.Background()
	r := New(zerolog.Nop())

	var got []string
	r.Register(Descriptor{Name: "echo", Handler: HandlerFunc(func(_ context.Context, args []string) error {
		got = args
		return nil
	})})

	require.NoError(t, r.Dispatch(ctx, "echo", []string{"1", "2"}))
	assert.Equal(t, []string{"1", "2"}, got)

	t.Run("not found", func(t *testing.T) {
		err := r.Dispatch(ctx, "missing", nil)
		assert.ErrorIs(t, err, calc.ErrCommandNotFound)
		assert.Equal(t, calc.KindCommandNotFound, calc.KindOf(err))
	})

	t.Run("handler failure", func(t *testing.T) {
		cause := errors.New("boom")
		r.Register(Descriptor{Name: "fail", Handler: HandlerFunc(func(context.Context, []string) error {
			return cause
		})})

		err := r.Dispatch(ctx, "fail", nil)
		assert.ErrorIs(t, err, calc.ErrCommandExecutionFailed)
		assert.ErrorIs(t, err, cause)

		var ce *calc.Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "fail", ce.Name)
	})

	t.Run("typed cause stays visible", func(t *testing.T) {
		r.Register(Descriptor{Name: "div", Handler: HandlerFunc(func(context.Context, []string) error {
			return calc.DivisionByZero()
		})})

		err := r.Dispatch(ctx, "div", nil)
		assert.ErrorIs(t, err, calc.ErrDivisionByZero)
		assert.Equal(t, calc.KindDivisionByZero, calc.KindOf(err))
	})
	t.Run("stop passes through", func(t *testing.T) {
		r.Register(Descriptor{Name: "quit", Handler: HandlerFunc(func(context.Context, []string) error {
			return ErrStop
		})})

		err := r.Dispatch(ctx, "quit", nil)
		assert.Same(t, ErrStop, err)
		assert.NotErrorIs(t, err, calc.ErrCommandExecutionFailed)
	})
}
