package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueGetString(t *testing.T) {
	v := NewMap(map[string]Value{
		"name": NewScalar("widget"),
	})
	s, err := v.GetString("name")
	assert.NoError(t, err)
	assert.Equal(t, "widget", s)

	missing, err := v.GetString("absent")
	assert.NoError(t, err)
	assert.Equal(t, "", missing)
}

func TestValueStringSeqAcceptsBareScalar(t *testing.T) {
	v := NewScalar("single.cpp")
	seq, err := v.StringSeq()
	assert.NoError(t, err)
	assert.Equal(t, []string{"single.cpp"}, seq)
}

func TestValueGetBoolDefaultsWhenAbsent(t *testing.T) {
	v := NewMap(map[string]Value{})
	assert.True(t, v.GetBool("single_executable", true))
	assert.False(t, v.GetBool("single_executable", false))
}

func TestValueGetBoolParsesTrueFalse(t *testing.T) {
	v := NewMap(map[string]Value{"flag": NewScalar("true")})
	assert.True(t, v.GetBool("flag", false))

	v2 := NewMap(map[string]Value{"flag": NewScalar("false")})
	assert.False(t, v2.GetBool("flag", true))
}

func TestValueMapRejectsScalar(t *testing.T) {
	_, err := NewScalar("x").Map()
	assert.Error(t, err)
}
