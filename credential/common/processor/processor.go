// Package processor produces the deterministic signing input of a credential
// or presentation: URDNA2015 canonical N-Quads and their SHA-256 digest.
package processor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
)

// Opt configures JSON-LD processing.
type Opt func(*Options)

// Options holds configuration for JSON-LD processing.
type Options struct {
	documentLoader ld.DocumentLoader
}

// WithDocumentLoader sets the loader used to resolve @context URLs.
func WithDocumentLoader(loader ld.DocumentLoader) Opt {
	return func(o *Options) {
		o.documentLoader = loader
	}
}

// defaultDocumentLoader is shared so remote contexts are fetched once per process.
var defaultDocumentLoader ld.DocumentLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))

// Canonicalize returns the canonical N-Quads of doc.
func Canonicalize(doc jsonmap.JSONMap, opts ...Opt) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	options := &Options{
		documentLoader: defaultDocumentLoader,
	}
	for _, opt := range opts {
		opt(options)
	}

	plain, err := toPlainJSON(doc)
	if err != nil {
		return nil, err
	}

	processor := ld.NewJsonLdProcessor()
	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.Format = "application/n-quads"
	ldOptions.Algorithm = ld.AlgorithmURDNA2015
	ldOptions.DocumentLoader = options.documentLoader

	canonicalized, err := processor.Normalize(standardizeToJSONLD(plain), ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	nquads, ok := canonicalized.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize document: unexpected result %T", canonicalized)
	}
	return []byte(nquads), nil
}

// Digest canonicalizes doc and returns the SHA-256 digest of the result.
func Digest(doc jsonmap.JSONMap, opts ...Opt) ([]byte, error) {
	canonical, err := Canonicalize(doc, opts...)
	if err != nil {
		return nil, err
	}
	return ComputeDigest(canonical)
}

// ComputeDigest computes the SHA-256 digest of the input data.
func ComputeDigest(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("failed to compute digest: input data is nil")
	}
	hash := sha256.Sum256(data)
	return hash[:], nil
}

// toPlainJSON re-decodes doc so that nested values are the plain map and
// slice types the JSON-LD processor expects.
func toPlainJSON(doc jsonmap.JSONMap) (map[string]interface{}, error) {
	data, err := doc.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}
	return plain, nil
}

// standardizeToJSONLD converts a decoded JSON object to a JSON-LD-compatible format.
func standardizeToJSONLD(input map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(input))
	for key, value := range input {
		result[key] = convertToJSONLDCompatible(value)
	}
	return result
}

// convertToJSONLDCompatible forces numeric and boolean values into typed
// string literals so canonicalization does not depend on float formatting.
func convertToJSONLDCompatible(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return standardizeToJSONLD(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = convertToJSONLDCompatible(val)
		}
		return result
	case float64:
		return map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#string",
		}
	case bool:
		return map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#boolean",
		}
	default:
		return v
	}
}
