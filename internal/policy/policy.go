package policy

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule names the check that rejected a URL.
type Rule string

// Rules in evaluation order.
const (
	RuleNone            Rule = ""
	RuleUnparseable     Rule = "unparseable"
	RuleScheme          Rule = "scheme"
	RuleDomain          Rule = "domain"
	RuleExtension       Rule = "extension"
	RuleRepeatedSegment Rule = "repeated_segment"
	RuleCalendarQuery   Rule = "calendar_query"
	RuleDateArchive     Rule = "date_archive"
	RuleLength          Rule = "length"
	RuleSortQuery       Rule = "sort_query"
	RuleTrapSubstring   Rule = "trap_substring"
)

// ErrInvalidRules is returned by New when the rule table cannot be compiled.
var ErrInvalidRules = errors.New("invalid policy rules")

// Verdict is the result of checking one URL.
type Verdict struct {
	// Admitted is true when every rule passed.
	Admitted bool

	// Rule is the first rule that failed, RuleNone when admitted.
	Rule Rule
}

// Policy evaluates Rules against candidate URLs.
type Policy struct {
	rules       Rules
	schemes     map[string]struct{}
	suffixes    []string
	extensions  map[string]struct{}
	calendar    []string
	datePattern *regexp.Regexp
}

// New compiles rules into a Policy.
func New(rules Rules) (*Policy, error) {
	if rules.MaxURLLength < 0 {
		return nil, fmt.Errorf("%w: negative max URL length %d", ErrInvalidRules, rules.MaxURLLength)
	}
	if rules.RepeatedSegments < 0 {
		return nil, fmt.Errorf("%w: negative repeated segment run %d", ErrInvalidRules, rules.RepeatedSegments)
	}

	p := &Policy{
		rules:      rules,
		schemes:    make(map[string]struct{}, len(rules.Schemes)),
		suffixes:   make([]string, 0, len(rules.DomainSuffixes)),
		extensions: make(map[string]struct{}, len(rules.BlockedExtensions)),
		calendar:   make([]string, 0, len(rules.CalendarWords)),
	}

	for _, s := range rules.Schemes {
		p.schemes[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range rules.DomainSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "." {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		p.suffixes = append(p.suffixes, s)
	}
	for _, ext := range rules.BlockedExtensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			p.extensions[ext] = struct{}{}
		}
	}
	for _, w := range rules.CalendarWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			p.calendar = append(p.calendar, w)
		}
	}
	if rules.DatePattern != "" {
		re, err := regexp.Compile(rules.DatePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: date pattern: %w", ErrInvalidRules, err)
		}
		p.datePattern = re
	}

	return p, nil
}

// Default returns a Policy over DefaultRules.
func Default() *Policy {
	p, err := New(DefaultRules())
	if err != nil {
		panic(err) // DefaultRules always compiles
	}
	return p
}

// Rules returns the rule table the policy was built from.
func (p *Policy) Rules() Rules {
	return p.rules
}

// IsAdmissible reports whether rawURL may be added to the frontier.
// It never panics; a URL that cannot be parsed is not admissible.
func (p *Policy) IsAdmissible(rawURL string) bool {
	return p.Check(rawURL).Admitted
}

// Check evaluates every rule against rawURL and reports the first failure.
func (p *Policy) Check(rawURL string) Verdict {
	u, err := url.Parse(rawURL)
	if err != nil {
		return reject(RuleUnparseable)
	}

	if _, ok := p.schemes[strings.ToLower(u.Scheme)]; !ok {
		return reject(RuleScheme)
	}

	if !p.inScope(u.Hostname()) {
		return reject(RuleDomain)
	}

	lowerPath := strings.ToLower(u.Path)

	if p.blockedExtension(lowerPath) {
		return reject(RuleExtension)
	}

	if hasRepeatedSegments(lowerPath, p.rules.RepeatedSegments) {
		return reject(RuleRepeatedSegment)
	}

	if u.RawQuery != "" && p.isCalendarPath(lowerPath) {
		return reject(RuleCalendarQuery)
	}

	if p.datePattern != nil && p.datePattern.MatchString(rawURL) {
		return reject(RuleDateArchive)
	}

	if p.rules.MaxURLLength > 0 && utf8.RuneCountInString(rawURL) > p.rules.MaxURLLength {
		return reject(RuleLength)
	}

	if isSortedListing(u.RawQuery, p.rules.SortQueryKeys) {
		return reject(RuleSortQuery)
	}

	for _, s := range p.rules.TrapSubstrings {
		if s != "" && strings.Contains(rawURL, s) {
			return reject(RuleTrapSubstring)
		}
	}

	return Verdict{Admitted: true, Rule: RuleNone}
}

func reject(r Rule) Verdict {
	return Verdict{Admitted: false, Rule: r}
}

// inScope checks the host against the domain suffixes and their bare apex.
func (p *Policy) inScope(host string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(host, suffix) || host == suffix[1:] {
			return true
		}
	}
	return false
}

// blockedExtension matches the final extension of the path.
func (p *Policy) blockedExtension(lowerPath string) bool {
	ext := path.Ext(lowerPath)
	if ext == "" {
		return false
	}
	_, blocked := p.extensions[ext[1:]]
	return blocked
}

func (p *Policy) isCalendarPath(lowerPath string) bool {
	for _, w := range p.calendar {
		if strings.Contains(lowerPath, w) {
			return true
		}
	}
	return false
}

// hasRepeatedSegments reports whether run identical non-empty segments
// appear consecutively in the path.
func hasRepeatedSegments(lowerPath string, run int) bool {
	if run < 2 {
		return false
	}

	segments := make([]string, 0, 8)
	for _, s := range strings.Split(lowerPath, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	streak := 1
	for i := 1; i < len(segments); i++ {
		if segments[i] == segments[i-1] {
			streak++
			if streak >= run {
				return true
			}
		} else {
			streak = 1
		}
	}
	return false
}

// isSortedListing reports whether every sort key appears in the raw query.
func isSortedListing(rawQuery string, keys []string) bool {
	if rawQuery == "" || len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !strings.Contains(rawQuery, k) {
			return false
		}
	}
	return true
}
