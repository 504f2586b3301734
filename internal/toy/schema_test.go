package toy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidateCreate(t *testing.T) {
	valid := CreateInput{
		Name:        ptr("Teddy Bear"),
		Description: ptr("A soft brown bear"),
		Price:       ptr(19.99),
	}
	require.NoError(t, ValidateCreate(valid))

	free := valid
	free.Price = ptr(0.0)
	require.NoError(t, ValidateCreate(free), "price 0 is allowed")

	cases := map[string]struct {
		in   CreateInput
		want string
	}{
		"missing name":      {CreateInput{Description: valid.Description, Price: valid.Price}, "name: required"},
		"empty name":        {CreateInput{Name: ptr(""), Description: valid.Description, Price: valid.Price}, "name: min=1"},
		"missing desc":      {CreateInput{Name: valid.Name, Price: valid.Price}, "description: required"},
		"short description": {CreateInput{Name: valid.Name, Description: ptr("short"), Price: valid.Price}, "description: min=10"},
		"missing price":     {CreateInput{Name: valid.Name, Description: valid.Description}, "price: required"},
		"negative price":    {CreateInput{Name: valid.Name, Description: valid.Description, Price: ptr(-1.0)}, "price: gte=0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateCreate(tc.in)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	require.NoError(t, ValidateUpdate(UpdateInput{}))
	require.NoError(t, ValidateUpdate(UpdateInput{Price: ptr(5.0)}))

	err := ValidateUpdate(UpdateInput{Description: ptr("tiny")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "description: min=10")

	err = ValidateUpdate(UpdateInput{Price: ptr(-0.5)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "price: gte=0")
}

func TestNewToyDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := CreateInput{Name: ptr("Kite"), Description: ptr("Flies in the wind"), Quantity: json.RawMessage("3"), Price: ptr(7.5)}

	got := NewToy(in, now)
	require.Equal(t, "Kite", got.Name)
	require.Equal(t, 7.5, got.Price)
	require.True(t, got.InStock)
	require.Equal(t, now, got.Created)

	in.InStock = ptr(false)
	require.False(t, NewToy(in, now).InStock)
}

func TestUpdateInputApply(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	toy := &Toy{Name: "Yo-yo", Description: "Goes up and down", Price: 2, InStock: true, Created: time.Now()}

	u := UpdateInput{Price: ptr(3.25), InStock: ptr(false), Created: &created}
	require.False(t, u.Empty())
	u.Apply(toy)

	require.Equal(t, "Yo-yo", toy.Name)
	require.Equal(t, "Goes up and down", toy.Description)
	require.Equal(t, 3.25, toy.Price)
	require.False(t, toy.InStock)
	require.Equal(t, created, toy.Created)

	require.True(t, UpdateInput{Quantity: json.RawMessage(`"four"`)}.Empty())
}
