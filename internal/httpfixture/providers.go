package httpfixture

import (
	"net/http"
	"regexp"
)

// RuleBasedProvider serves the response of the first matching rule
type RuleBasedProvider struct {
	rules    []Rule
	patterns map[int]*regexp.Regexp
}

// NewRuleBasedProvider compiles the rules' URL patterns.
// Rules whose pattern does not compile never match.
func NewRuleBasedProvider(rules []Rule) *RuleBasedProvider {
	p := &RuleBasedProvider{
		rules:    rules,
		patterns: make(map[int]*regexp.Regexp),
	}
	for i, rule := range rules {
		if rule.Request.URLType == "pattern" {
			if re, err := regexp.Compile(rule.Request.URL); err == nil {
				p.patterns[i] = re
			}
		}
	}
	return p
}

// GetFixture implements Provider
func (p *RuleBasedProvider) GetFixture(req *http.Request) *Fixture {
	for i := range p.rules {
		if p.matches(i, req) {
			fixture := p.rules[i].Response
			return &fixture
		}
	}
	return nil
}

func (p *RuleBasedProvider) matches(i int, req *http.Request) bool {
	criteria := p.rules[i].Request

	if criteria.Method != "*" && criteria.Method != "" && req.Method != criteria.Method {
		return false
	}

	switch {
	case criteria.URL == "":
	case criteria.URLType == "pattern":
		re, ok := p.patterns[i]
		if !ok || !re.MatchString(req.URL.String()) {
			return false
		}
	default:
		if req.URL.String() != criteria.URL {
			return false
		}
	}

	for key, value := range criteria.Headers {
		if req.Header.Get(key) != value {
			return false
		}
	}

	return true
}

// FuncProvider adapts a function to Provider
type FuncProvider func(*http.Request) *Fixture

// GetFixture implements Provider
func (f FuncProvider) GetFixture(req *http.Request) *Fixture {
	return f(req)
}
