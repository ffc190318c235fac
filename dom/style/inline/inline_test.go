package inline

import (
	"testing"

	"github.com/npillmayer/keyframes/dom/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	kvs, err := Parse("opacity: 0; margin: 10px 20px; WIDTH: 50%; opacity: 0.5")
	require.NoError(t, err)
	assert.Equal(t, []style.KeyValue{
		{Key: "margin-bottom", Value: "10px"},
		{Key: "margin-left", Value: "20px"},
		{Key: "margin-right", Value: "20px"},
		{Key: "margin-top", Value: "10px"},
		{Key: "opacity", Value: "0.5"},
		{Key: "width", Value: "50%"},
	}, kvs)
	kvs, err = Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, kvs)
}

func TestFormat(t *testing.T) {
	s := Format([]style.KeyValue{
		{Key: "width", Value: "200px"},
		{Key: "color", Value: ""},
		{Key: "opacity", Value: "1"},
	})
	assert.Equal(t, "opacity: 1; width: 200px;", s)
	assert.Equal(t, "", Format(nil))
}

func TestRoundTrip(t *testing.T) {
	text := "font-size: 200%; left: 0; top: 12.5px;"
	kvs, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, text, Format(kvs))
}
