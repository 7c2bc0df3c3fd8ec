package botkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	type args struct {
		Name string `json:"name"`
	}

	got, err := ParseJSON[args](`{"name":"Acme"}`)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	_, err = ParseJSON[args]("name=Acme")
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	a := SplitArgs("  video  42 too   long ")

	assert.Equal(t, "video", a.String(0))
	assert.Equal(t, "", a.String(9))
	assert.Equal(t, "too long", a.Rest(2))
	assert.Equal(t, "", a.Rest(4))

	id, err := a.Int64(1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = a.Int64(0)
	assert.Error(t, err)
	_, err = a.Int64(5)
	assert.Error(t, err)
	_, err = SplitArgs("-3").Int64(0)
	assert.Error(t, err)
}
