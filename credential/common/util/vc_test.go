package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-credential-engine/credential/common/util"
)

func TestSerializeTypes(t *testing.T) {
	assert.Nil(t, util.SerializeTypes(nil))
	assert.Equal(t, "VerifiableCredential", util.SerializeTypes([]string{"VerifiableCredential"}))
	assert.Equal(t,
		[]interface{}{"VerifiableCredential", "PrescriptionCredential"},
		util.SerializeTypes([]string{"VerifiableCredential", "PrescriptionCredential"}))
}

func TestParseStrings(t *testing.T) {
	tests := []struct {
		name        string
		raw         interface{}
		expected    []string
		expectError bool
		errorMsg    string
	}{
		{name: "Nil", raw: nil, expected: nil},
		{name: "Single", raw: "VerifiableCredential", expected: []string{"VerifiableCredential"}},
		{name: "Array", raw: []interface{}{"a", "b"}, expected: []string{"a", "b"}},
		{name: "String slice", raw: []string{"a"}, expected: []string{"a"}},
		{name: "Mixed array", raw: []interface{}{"a", 1}, expectError: true, errorMsg: "unsupported type entry at index 1: int"},
		{name: "Number", raw: 42.0, expectError: true, errorMsg: "unsupported type field: float64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := util.ParseStrings("type", tt.raw)

			if tt.expectError {
				assert.ErrorContains(t, err, tt.errorMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppendUnique(t *testing.T) {
	set := util.AppendUnique(nil, "a", "b", "a")
	set = util.AppendUnique(set, "c", "b")
	assert.Equal(t, []string{"a", "b", "c"}, set)
}

func TestEnsureFirst(t *testing.T) {
	assert.Equal(t, []string{"base"}, util.EnsureFirst(nil, "base"))
	assert.Equal(t, []string{"base", "x", "y"}, util.EnsureFirst([]string{"x", "base", "y"}, "base"))
	assert.Equal(t, []string{"base", "x"}, util.EnsureFirst([]string{"x"}, "base"))
}

func TestIsURI(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://www.w3.org/2018/credentials/v1", true},
		{"https://www.w3.org/2018/credentials/examples/v1", true},
		{"did:iota:alice", true},
		{"urn:uuid:3978344f-8596-4c3a-a978-8fcaba3903c5", true},
		{"", false},
		{"not a uri", false},
		{"/relative/path", false},
		{"https://exa mple.org", false},
		{"http://[::1", false},
		{"https://example.org/a%20b", true},
		{"https://example.org/a b", false},
		{"https://example.org/<x>", false},
		{"https://example.org/\"q\"", false},
		{"https://example.org/100%", false},
		{"https://example.org/%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, util.IsURI(tt.input))
		})
	}
}
