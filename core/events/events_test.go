package events

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/core/artifacts"
	"github.com/dolittle/go-sdk/core/build"
)

type (
	DishPrepared struct {
		Dish string `json:"dish"`
		Chef string `json:"chef"`
	}
	DishRemoved struct {
		Dish string `json:"dish"`
	}
)

var (
	dishPrepared = MustEventType("1844473f-d714-4327-8b7f-5b3c2bdfc26a", 1)
	dishRemoved  = MustEventType("d8d4b0a7-7c1e-4a5c-9a3f-2bb7e1c4d1a2", 1)
)

func newTypes(t *testing.T) *EventTypes {
	t.Helper()
	b := NewBuilder()
	Register[DishPrepared](b, dishPrepared)
	Register[DishRemoved](b, dishRemoved)
	results := build.NewResults()
	types := b.Build(results)
	require.NoError(t, results.Err())
	return types
}

func TestParseEventType(t *testing.T) {
	et, err := ParseEventType("1844473f-d714-4327-8b7f-5b3c2bdfc26a", 2)
	require.NoError(t, err)
	require.Equal(t, artifacts.Generation(2), et.Generation)

	_, err = ParseEventType("1844473f-d714-4327-8b7f-5b3c2bdfc26a", -1)
	require.ErrorIs(t, err, artifacts.ErrInvalidGeneration)
	_, err = ParseEventType("x", 1)
	require.Error(t, err)
}

func TestEventType_JSON(t *testing.T) {
	b, err := json.Marshal(dishPrepared)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1844473f-d714-4327-8b7f-5b3c2bdfc26a","generation":1}`, string(b))

	var back EventType
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, dishPrepared, back)
}

func TestEventTypeMap(t *testing.T) {
	m := NewEventTypeMap[string]()
	gen2 := NewEventType(dishPrepared.ID, 2)

	m.Set(dishPrepared, "v1")
	m.Set(gen2, "v2")
	m.Set(dishRemoved, "removed")
	require.Equal(t, 3, m.Len())

	v, ok := m.Get(gen2)
	require.True(t, ok)
	require.Equal(t, "v2", v)
	require.False(t, m.Has(NewEventType(dishPrepared.ID, 3)))
	require.True(t, m.HasID(dishPrepared.ID))

	var gens []EventType
	for et := range m.ForID(dishPrepared.ID) {
		gens = append(gens, et)
	}
	require.Equal(t, []EventType{dishPrepared, gen2}, gens)

	require.Equal(t, []EventType{dishPrepared, gen2, dishRemoved}, m.EventTypes())

	require.True(t, m.Delete(dishPrepared))
	require.True(t, m.Delete(gen2))
	require.False(t, m.HasID(dishPrepared.ID))
	require.Equal(t, 1, m.Len())
}

func TestBuilder_ConflictsAreReported(t *testing.T) {
	b := NewBuilder()
	Register[DishPrepared](b, dishPrepared)
	Register[DishRemoved](b, dishPrepared)
	Register[DishPrepared](b, dishPrepared)

	results := build.NewResults()
	types := b.Build(results)

	require.True(t, results.Failed())
	require.Len(t, results.Failures(), 1)
	require.ErrorIs(t, results.Err(), artifacts.ErrMultipleTypesForKey)
	require.Equal(t, 1, types.Len())
}

func TestEventTypes(t *testing.T) {
	types := newTypes(t)

	et, err := TypeFor[DishPrepared](types)
	require.NoError(t, err)
	require.Equal(t, dishPrepared, et)

	et, err = types.ResolveFrom(&DishRemoved{})
	require.NoError(t, err)
	require.Equal(t, dishRemoved, et)

	typ, err := types.GetTypeFor(dishPrepared)
	require.NoError(t, err)
	require.Equal(t, reflect.TypeFor[DishPrepared](), typ)

	v, err := types.Hydrate(dishPrepared, []byte(`{"dish":"Taco","chef":"Mrs. Tex Mex"}`))
	require.NoError(t, err)
	require.Equal(t, &DishPrepared{Dish: "Taco", Chef: "Mrs. Tex Mex"}, v)

	_, err = types.New(NewEventType(dishPrepared.ID, 9))
	require.ErrorIs(t, err, artifacts.ErrKeyNotAssociatedWithType)
}

func TestToUncommitted(t *testing.T) {
	types := newTypes(t)
	other := MustEventType("0b0b0b0b-0000-4000-8000-000000000001", 1)

	out, err := ToUncommitted(types, "Taco",
		DishPrepared{Dish: "Taco", Chef: "a"},
		&DishRemoved{Dish: "Taco"},
		WithType(other, map[string]int{"n": 1}),
	)
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.Equal(t, dishPrepared, out[0].EventType)
	require.Equal(t, "Taco", out[0].EventSourceID)
	require.False(t, out[0].Public)
	require.JSONEq(t, `{"dish":"Taco","chef":"a"}`, out[0].Content)
	require.Equal(t, dishRemoved, out[1].EventType)
	require.Equal(t, other, out[2].EventType)
	require.JSONEq(t, `{"n":1}`, out[2].Content)

	_, err = ToUncommitted(types, "Taco", struct{ X int }{1})
	require.ErrorIs(t, err, artifacts.ErrUnableToResolveKey)

	_, err = ToUncommitted(types, "", DishPrepared{})
	require.ErrorIs(t, err, ErrNoEventSource)

	out, err = ToUncommitted(types, "")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDecode(t *testing.T) {
	types := newTypes(t)

	v, err := Decode(types, dishRemoved, []byte(`{"dish":"Burrito"}`))
	require.NoError(t, err)
	require.Equal(t, &DishRemoved{Dish: "Burrito"}, v)

	v, err = Decode(types, MustEventType("0b0b0b0b-0000-4000-8000-000000000001", 1), []byte(`{"dish":"Burrito"}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"dish": "Burrito"}, v)

	_, err = Decode(types, dishRemoved, []byte(`{`))
	require.Error(t, err)
}
