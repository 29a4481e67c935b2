package coverage

import (
	"sort"
	"strings"

	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// CatalogSpec is the serialisable form of a benchmark catalog.  Region and
// category keys are case-sensitive on input; categories must be one of car,
// home, business, life.
type CatalogSpec struct {
	Benchmarks       map[string]map[string][]BenchmarkEntry `yaml:"benchmarks" json:"benchmarks"`
	Synonyms         map[string][]string                    `yaml:"synonyms" json:"synonyms"`
	CategoryKeywords map[string][]string                    `yaml:"category_keywords" json:"category_keywords"`
	RegionAliases    map[string]string                      `yaml:"region_aliases" json:"region_aliases"`
	GenericTerms     []string                               `yaml:"generic_terms" json:"generic_terms"`
	LimitPhrases     []string                               `yaml:"limit_phrases" json:"limit_phrases"`
}

// Catalog is the immutable set of benchmark tables, synonyms and inference
// keywords a Matcher works from.  All accessors return copies.
type Catalog struct {
	tables   map[Region]map[PolicyCategory][]BenchmarkEntry
	synonyms map[string][]string
	keywords map[PolicyCategory][]string
	aliases  map[string]Region
	generic  []string
	limits   []string
}

// NewCatalog validates spec and builds a Catalog from a deep copy of it.
// An empty table is accepted here and reported at analysis time.
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	c := &Catalog{
		tables:   make(map[Region]map[PolicyCategory][]BenchmarkEntry, len(spec.Benchmarks)),
		synonyms: make(map[string][]string, len(spec.Synonyms)),
		keywords: make(map[PolicyCategory][]string, len(spec.CategoryKeywords)),
		aliases:  make(map[string]Region),
	}

	for regionName, byCategory := range spec.Benchmarks {
		regionName = strings.TrimSpace(regionName)
		if regionName == "" {
			return nil, errors.New(errors.ErrCodeCatalogLoadFailed, "benchmark region name is empty")
		}
		region := Region(regionName)
		c.tables[region] = make(map[PolicyCategory][]BenchmarkEntry, len(byCategory))
		c.aliases[strings.ToLower(regionName)] = region

		for categoryName, entries := range byCategory {
			category, ok := ParseCategory(categoryName)
			if !ok {
				return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
					"region %s: unknown policy category %q", regionName, categoryName)
			}
			seen := make(map[string]struct{}, len(entries))
			table := make([]BenchmarkEntry, 0, len(entries))
			for _, e := range entries {
				e.CoverageName = strings.TrimSpace(e.CoverageName)
				if e.CoverageName == "" {
					return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
						"%s/%s: coverage name is empty", regionName, category)
				}
				if !e.Tier.Valid() {
					return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
						"%s/%s: coverage %q has invalid tier %q", regionName, category, e.CoverageName, e.Tier)
				}
				key := strings.ToLower(e.CoverageName)
				if _, dup := seen[key]; dup {
					return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
						"%s/%s: duplicate coverage %q", regionName, category, e.CoverageName)
				}
				seen[key] = struct{}{}
				table = append(table, e)
			}
			c.tables[region][category] = table
		}
	}

	for alias, target := range spec.RegionAliases {
		region, ok := c.lookupRegion(target)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
				"region alias %q points at unknown region %q", alias, target)
		}
		c.aliases[strings.ToLower(strings.TrimSpace(alias))] = region
	}

	for name, alts := range spec.Synonyms {
		key := strings.ToLower(strings.TrimSpace(name))
		c.synonyms[key] = append(c.synonyms[key], lowerAll(alts)...)
	}

	for categoryName, words := range spec.CategoryKeywords {
		category, ok := ParseCategory(categoryName)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
				"category keywords: unknown policy category %q", categoryName)
		}
		c.keywords[category] = lowerAll(words)
	}

	c.generic = lowerAll(spec.GenericTerms)
	if len(c.generic) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogLoadFailed, "generic fallback terms are empty")
	}
	c.limits = lowerAll(spec.LimitPhrases)

	return c, nil
}

// MustNewCatalog is NewCatalog for static tables known to be valid.
func MustNewCatalog(spec CatalogSpec) *Catalog {
	c, err := NewCatalog(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) lookupRegion(name string) (Region, bool) {
	r, ok := c.aliases[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// ResolveRegion maps user input to a catalog region.  Empty input resolves to
// DefaultRegion.  Unknown regions are returned trimmed with ok false.
func (c *Catalog) ResolveRegion(name string) (Region, bool) {
	if strings.TrimSpace(name) == "" {
		name = string(DefaultRegion)
	}
	if r, ok := c.lookupRegion(name); ok {
		return r, true
	}
	return Region(strings.TrimSpace(name)), false
}

// Regions lists the regions that have at least one table, sorted.
func (c *Catalog) Regions() []Region {
	out := make([]Region, 0, len(c.tables))
	for r := range c.tables {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Categories lists the categories benchmarked for region, in inference order.
func (c *Catalog) Categories(region Region) []PolicyCategory {
	byCategory := c.tables[region]
	out := make([]PolicyCategory, 0, len(byCategory))
	for _, cat := range InferenceOrder {
		if _, ok := byCategory[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// Table returns the benchmark entries for (region, category).  ok reports
// whether the pair exists, independent of whether the table is empty.
func (c *Catalog) Table(region Region, category PolicyCategory) ([]BenchmarkEntry, bool) {
	table, ok := c.tables[region][category]
	if !ok {
		return nil, false
	}
	out := make([]BenchmarkEntry, len(table))
	copy(out, table)
	return out, true
}

// Synonyms returns the lower-cased alternate phrasings for a coverage.
func (c *Catalog) Synonyms(coverage string) []string {
	return append([]string(nil), c.synonyms[strings.ToLower(strings.TrimSpace(coverage))]...)
}

func (c *Catalog) Keywords(category PolicyCategory) []string {
	return append([]string(nil), c.keywords[category]...)
}

func (c *Catalog) GenericTerms() []string { return append([]string(nil), c.generic...) }

func (c *Catalog) LimitPhrases() []string { return append([]string(nil), c.limits...) }

// needles returns the lower-cased name followed by its synonyms.  The slice is
// shared and must not be modified.
func (c *Catalog) needles(coverage string) []string {
	key := strings.ToLower(strings.TrimSpace(coverage))
	return append([]string{key}, c.synonyms[key]...)
}

// Spec exports the catalog in serialisable form.  Names and synonyms come out
// as stored, so synonyms and keywords are lower-cased.
func (c *Catalog) Spec() CatalogSpec {
	spec := CatalogSpec{
		Benchmarks:       make(map[string]map[string][]BenchmarkEntry, len(c.tables)),
		Synonyms:         make(map[string][]string, len(c.synonyms)),
		CategoryKeywords: make(map[string][]string, len(c.keywords)),
		RegionAliases:    make(map[string]string),
		GenericTerms:     c.GenericTerms(),
		LimitPhrases:     c.LimitPhrases(),
	}
	for region, byCategory := range c.tables {
		spec.Benchmarks[string(region)] = make(map[string][]BenchmarkEntry, len(byCategory))
		for category := range byCategory {
			table, _ := c.Table(region, category)
			spec.Benchmarks[string(region)][string(category)] = table
		}
	}
	for name, alts := range c.synonyms {
		spec.Synonyms[name] = append([]string(nil), alts...)
	}
	for category, words := range c.keywords {
		spec.CategoryKeywords[string(category)] = append([]string(nil), words...)
	}
	for alias, region := range c.aliases {
		if alias != strings.ToLower(string(region)) {
			spec.RegionAliases[alias] = string(region)
		}
	}
	return spec
}

//Personal.AI order the ending
