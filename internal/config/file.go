package config

import "github.com/nao1215/scopecrawl/internal/policy"

// PolicyFile is the policy section of the configuration file.
// Lists replace the defaults when present. Pointer fields distinguish an
// explicit zero, which disables a rule, from an absent key.
type PolicyFile struct {
	Schemes           []string `yaml:"schemes,omitempty"`
	DomainSuffixes    []string `yaml:"domainSuffixes,omitempty"`
	BlockedExtensions []string `yaml:"blockedExtensions,omitempty"`
	RepeatedSegments  *int     `yaml:"repeatedSegments,omitempty"`
	CalendarWords     []string `yaml:"calendarWords,omitempty"`
	DatePattern       *string  `yaml:"datePattern,omitempty"`
	MaxURLLength      *int     `yaml:"maxURLLength,omitempty"`
	SortQueryKeys     []string `yaml:"sortQueryKeys,omitempty"`
	TrapSubstrings    []string `yaml:"trapSubstrings,omitempty"`

	// ExtraTrapSubstrings are appended to TrapSubstrings, or to the
	// defaults when TrapSubstrings is absent.
	ExtraTrapSubstrings []string `yaml:"extraTrapSubstrings,omitempty"`
}

// File represents the structure of the .scopecrawl configuration file.
type File struct {
	// Policy tunes the admissibility rule tables.
	Policy PolicyFile `yaml:"policy,omitempty"`

	// StopWords replaces the embedded stop-word list.
	StopWords []string `yaml:"stopWords,omitempty"`

	// RootDomain overrides the subdomain counting domain.
	RootDomain string `yaml:"rootDomain,omitempty"`

	// ReportEvery overrides the unique-page interval between reports.
	ReportEvery int `yaml:"reportEvery,omitempty"`

	// TopWords overrides the number of words listed in a report.
	TopWords int `yaml:"topWords,omitempty"`
}

// Apply merges the values present in the file into cfg.
func (cf *File) Apply(cfg *Config) {
	if cf == nil {
		return
	}

	cf.Policy.apply(&cfg.Policy)

	if cf.StopWords != nil {
		cfg.StopWords = cf.StopWords
	}
	if cf.RootDomain != "" {
		cfg.RootDomain = cf.RootDomain
	}
	if cf.ReportEvery != 0 {
		cfg.ReportEvery = cf.ReportEvery
	}
	if cf.TopWords != 0 {
		cfg.TopWords = cf.TopWords
	}
}

func (pf *PolicyFile) apply(r *policy.Rules) {
	if len(pf.Schemes) > 0 {
		r.Schemes = pf.Schemes
	}
	if len(pf.DomainSuffixes) > 0 {
		r.DomainSuffixes = pf.DomainSuffixes
	}
	if len(pf.BlockedExtensions) > 0 {
		r.BlockedExtensions = pf.BlockedExtensions
	}
	if pf.RepeatedSegments != nil {
		r.RepeatedSegments = *pf.RepeatedSegments
	}
	if len(pf.CalendarWords) > 0 {
		r.CalendarWords = pf.CalendarWords
	}
	if pf.DatePattern != nil {
		r.DatePattern = *pf.DatePattern
	}
	if pf.MaxURLLength != nil {
		r.MaxURLLength = *pf.MaxURLLength
	}
	if len(pf.SortQueryKeys) > 0 {
		r.SortQueryKeys = pf.SortQueryKeys
	}
	if len(pf.TrapSubstrings) > 0 {
		r.TrapSubstrings = pf.TrapSubstrings
	}
	if len(pf.ExtraTrapSubstrings) > 0 {
		merged := make([]string, 0, len(r.TrapSubstrings)+len(pf.ExtraTrapSubstrings))
		merged = append(merged, r.TrapSubstrings...)
		r.TrapSubstrings = append(merged, pf.ExtraTrapSubstrings...)
	}
}
