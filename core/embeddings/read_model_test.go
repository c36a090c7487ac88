package embeddings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type plainDish struct {
	Dish                  string `json:"dish"`
	NumberOfTimesPrepared int    `json:"numberOfTimesPrepared"`
}

func TestReadModel_RoundTrip(t *testing.T) {
	t.Run("struct pointer", func(t *testing.T) {
		rm := defaultReadModel[*Dish]()
		in := &Dish{Dish: "Taco", NumberOfTimesPrepared: 3, Chefs: []string{"a", "b"}}
		state, err := rm.Serialize(in)
		require.NoError(t, err)
		out, err := rm.Hydrate(state)
		require.NoError(t, err)
		require.Equal(t, in, out)
		require.NotSame(t, in, out)
	})

	t.Run("struct value", func(t *testing.T) {
		rm := defaultReadModel[plainDish]()
		in := plainDish{Dish: "Burrito", NumberOfTimesPrepared: 1}
		state, err := rm.Serialize(in)
		require.NoError(t, err)
		out, err := rm.Hydrate(state)
		require.NoError(t, err)
		require.Equal(t, in, out)
	})

	t.Run("plain object", func(t *testing.T) {
		rm := defaultReadModel[map[string]any]()
		in := map[string]any{"dish": "Taco", "numberOfTimesPrepared": float64(3)}
		state, err := rm.Serialize(in)
		require.NoError(t, err)
		out, err := rm.Hydrate(state)
		require.NoError(t, err)
		require.Equal(t, in, out)
	})
}

func TestReadModel_HydrateOverlaysInitialState(t *testing.T) {
	b := New[*Dish](dishEmbedding).WithInitialState(&Dish{Dish: "Unknown", Chefs: []string{"nobody"}})
	rm := b.readModel

	d, err := rm.Hydrate(`{"numberOfTimesPrepared":2}`)
	require.NoError(t, err)
	require.Equal(t, &Dish{Dish: "Unknown", NumberOfTimesPrepared: 2, Chefs: []string{"nobody"}}, d)

	for _, empty := range []string{"", "null", "  "} {
		d, err := rm.Hydrate(empty)
		require.NoError(t, err)
		require.Equal(t, &Dish{Dish: "Unknown", Chefs: []string{"nobody"}}, d)
	}

	_, err = rm.Hydrate(`{"dish":`)
	require.Error(t, err)
}

func TestReadModel_InitialStatesAreIndependent(t *testing.T) {
	initial := &Dish{Dish: "Taco", Chefs: []string{"a"}}
	rm := New[*Dish](dishEmbedding).WithInitialState(initial).readModel

	a := rm.Initial()
	a.Chefs[0] = "changed"
	a.NumberOfTimesPrepared = 9
	initial.Dish = "changed too"

	b := rm.Initial()
	require.Equal(t, &Dish{Dish: "Taco", Chefs: []string{"a"}}, b)

	state, err := rm.InitialState()
	require.NoError(t, err)
	require.JSONEq(t, `{"dish":"Taco","numberOfTimesPrepared":0,"chefs":["a"]}`, state)
}

func TestReadModel_DefaultInitialState(t *testing.T) {
	d := defaultReadModel[*Dish]().Initial()
	require.NotNil(t, d)
	require.Equal(t, &Dish{}, d)

	m, err := defaultReadModel[map[string]any]().Hydrate(`{"a":1}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1)}, m)
}

func TestReadModel_CustomHydrator(t *testing.T) {
	boom := errors.New("boom")
	rm := New[*Dish](dishEmbedding).WithHydrator(func(state []byte) (*Dish, error) {
		if string(state) == "bad" {
			return nil, boom
		}
		return &Dish{Dish: string(state)}, nil
	}).readModel

	d, err := rm.Hydrate("Taco")
	require.NoError(t, err)
	require.Equal(t, "Taco", d.Dish)

	_, err = rm.Hydrate("bad")
	require.ErrorIs(t, err, boom)
}
