package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON[sample]([]byte(`{"name":"ivory","count":3}`))
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "ivory", Count: 3}, v)

	_, err = DecodeJSON[sample]([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrPoison)
}

func TestJSONHandler(t *testing.T) {
	var got sample
	var gotKey string
	h := JSONHandler(func(ctx context.Context, key string, v sample) error {
		gotKey, got = key, v
		return nil
	})

	require.NoError(t, h(context.Background(), []byte("k"), []byte(`{"name":"lace"}`)))
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "lace", got.Name)

	err := h(context.Background(), nil, []byte(`[]`))
	assert.True(t, errors.Is(err, ErrPoison))
}

func TestEncode(t *testing.T) {
	msg, err := encode(Event{Key: "session-1", Type: "ranking", Value: sample{Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, []byte("session-1"), msg.Key)
	assert.JSONEq(t, `{"name":"x","count":0}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)

	_, err = encode(Event{Value: make(chan int)})
	assert.Error(t, err)
}
