package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedEvent = `{"audit":{"receivedAt":"2025-06-01T10:00:00Z"},"originalPayload":{"deviceId":"DEV-1","location":{"latitude":10.5,"longitude":20},"gforce":null},"processing":{"status":"COMPLETED","actions":[{"actionType":"VOIP_CALL"},{"actionType":"DISPATCH_AMBULANCE"}]}}`

func TestParseKeepsKeyOrder(t *testing.T) {
	v, err := Parse([]byte(storedEvent))
	require.NoError(t, err)

	assert.Equal(t, Object, v.Kind())
	assert.Equal(t, []string{"audit", "originalPayload", "processing"}, v.Keys())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, storedEvent, string(out))
}

func TestPathAccessors(t *testing.T) {
	v, err := Parse([]byte(storedEvent))
	require.NoError(t, err)

	deviceID, ok := v.Path("originalPayload", "deviceId")
	require.True(t, ok)
	s, ok := deviceID.AsString()
	assert.True(t, ok)
	assert.Equal(t, "DEV-1", s)

	lat, ok := v.Path("originalPayload", "location", "latitude")
	require.True(t, ok)
	f, ok := lat.AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 10.5, f)

	gforce, ok := v.Path("originalPayload", "gforce")
	require.True(t, ok)
	assert.True(t, gforce.IsNull())

	actions, ok := v.Path("processing", "actions")
	require.True(t, ok)
	assert.Equal(t, 2, actions.Len())
	second, ok := actions.Index(1)
	require.True(t, ok)
	typ, _ := second.Path("actionType")
	s, _ = typ.AsString()
	assert.Equal(t, "DISPATCH_AMBULANCE", s)

	_, ok = actions.Index(2)
	assert.False(t, ok)
	_, ok = v.Path("originalPayload", "deviceId", "nested")
	assert.False(t, ok)
	_, ok = v.Path("missing")
	assert.False(t, ok)
}

func TestAccessorsRejectWrongKind(t *testing.T) {
	v := StringValue("10")

	_, ok := v.AsFloat64()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
	assert.Nil(t, v.Keys())
	assert.Equal(t, 0, v.Len())
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	for _, input := range []string{``, `{"a":`, `{"a":1}{"b":2}`, `[1,2`, `nul`} {
		_, err := Parse([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestScalarsRoundTrip(t *testing.T) {
	const input = `{"id":42,"ratio":-0.125,"tags":["a",true,false,null]}`
	v, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	tags, _ := v.Field("tags")
	first, _ := tags.Index(1)
	b, ok := first.AsBool()
	assert.True(t, ok)
	assert.True(t, b)
	id, _ := v.Field("id")
	n, ok := id.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, json.Number("42"), n)
}

func TestUnmarshalIntoStructField(t *testing.T) {
	var holder struct {
		Data Value `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"b":1,"a":2}}`), &holder))
	assert.Equal(t, []string{"b", "a"}, holder.Data.Keys())

	var typed struct {
		B int `json:"b"`
		A int `json:"a"`
	}
	require.NoError(t, holder.Data.Decode(&typed))
	assert.Equal(t, 1, typed.B)
	assert.Equal(t, 2, typed.A)
}

func TestEmptyContainers(t *testing.T) {
	v, err := Parse([]byte(`{"actions":[],"meta":{}}`))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[],"meta":{}}`, string(out))
}
