package processor_test

import (
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/processor"
)

const (
	testContextURL = "https://example.org/contexts/test/v1"
	testContext    = `{
  "@context": {
    "@vocab": "https://example.org/vocab#",
    "id": "@id",
    "type": "@type"
  }
}`
)

func newTestLoader(t *testing.T) ld.DocumentLoader {
	t.Helper()

	loader := ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	doc, err := ld.DocumentFromReader(strings.NewReader(testContext))
	require.NoError(t, err)
	loader.AddDocument(testContextURL, doc)
	return loader
}

func testDocument() jsonmap.JSONMap {
	return jsonmap.JSONMap{
		"@context": []interface{}{testContextURL},
		"id":       "urn:uuid:1234",
		"type":     "Thing",
		"name":     "John Doe",
		"age":      42,
		"nested":   jsonmap.JSONMap{"id": "urn:uuid:5678", "active": true},
	}
}

func TestCanonicalize(t *testing.T) {
	loader := newTestLoader(t)

	canonical, err := processor.Canonicalize(testDocument(), processor.WithDocumentLoader(loader))
	require.NoError(t, err)

	nquads := string(canonical)
	assert.Contains(t, nquads, `<urn:uuid:1234> <https://example.org/vocab#name> "John Doe" .`)
	assert.Contains(t, nquads, `<urn:uuid:1234> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://example.org/vocab#Thing> .`)
	assert.Contains(t, nquads, `<urn:uuid:1234> <https://example.org/vocab#nested> <urn:uuid:5678> .`)

	again, err := processor.Canonicalize(testDocument(), processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, canonical, again)
}

func TestDigest(t *testing.T) {
	loader := newTestLoader(t)

	digest, err := processor.Digest(testDocument(), processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.Len(t, digest, 32)

	changed := testDocument()
	changed["name"] = "Jane Doe"
	other, err := processor.Digest(changed, processor.WithDocumentLoader(loader))
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestCanonicalizeErrors(t *testing.T) {
	_, err := processor.Canonicalize(nil)
	assert.ErrorContains(t, err, "document is nil")

	_, err = processor.Canonicalize(jsonmap.JSONMap{"bad": func() {}})
	assert.ErrorContains(t, err, "failed to canonicalize document")

	_, err = processor.ComputeDigest(nil)
	assert.ErrorContains(t, err, "input data is nil")
}
