package coverage

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// ParseCatalog decodes a YAML catalog.  Sections left out of the document
// (synonyms, category keywords, region aliases, generic terms, limit phrases)
// are taken from the built-in catalog; benchmarks must be present.
func ParseCatalog(data []byte) (*Catalog, error) {
	var spec CatalogSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "decode benchmark catalog")
	}
	if len(spec.Benchmarks) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogLoadFailed, "benchmark catalog defines no benchmarks")
	}

	defaults := DefaultSpec()
	if spec.Synonyms == nil {
		spec.Synonyms = defaults.Synonyms
	}
	if spec.CategoryKeywords == nil {
		spec.CategoryKeywords = defaults.CategoryKeywords
	}
	if spec.RegionAliases == nil {
		spec.RegionAliases = defaults.RegionAliases
		for alias, target := range spec.RegionAliases {
			if _, ok := spec.Benchmarks[target]; !ok {
				delete(spec.RegionAliases, alias)
			}
		}
	}
	if spec.GenericTerms == nil {
		spec.GenericTerms = defaults.GenericTerms
	}
	if spec.LimitPhrases == nil {
		spec.LimitPhrases = defaults.LimitPhrases
	}
	return NewCatalog(spec)
}

// LoadCatalogFile reads and parses the catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "read benchmark catalog").WithDetail(path)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "load benchmark catalog").WithDetail(path)
	}
	return c, nil
}

// MarshalCatalog renders c as YAML, suitable for editing and reloading.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Spec()); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode benchmark catalog")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode benchmark catalog")
	}
	return buf.Bytes(), nil
}

//Personal.AI order the ending
