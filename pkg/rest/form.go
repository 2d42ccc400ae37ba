package rest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// Param is a single form parameter.
type Param struct {
	Key   string
	Value string
}

// Form is an ordered list of form parameters. Unlike url.Values it keeps insertion order,
// which query APIs rely on for numbered parameters such as SecurityGroup.1, SecurityGroup.2.
type Form []Param

// Add appends key=value.
func (f *Form) Add(key, value string) {
	*f = append(*f, Param{Key: key, Value: value})
}

// AddIndexed appends prefix.1=values[0], prefix.2=values[1], ...
func (f *Form) AddIndexed(prefix string, values ...string) {
	for i, v := range values {
		f.Add(fmt.Sprintf("%s.%d", prefix, i+1), v)
	}
}

// Get returns the first value stored under key.
func (f Form) Get(key string) (string, bool) {
	p, ok := lo.Find(f, func(p Param) bool { return p.Key == key })
	return p.Value, ok
}

// Has reports whether any parameter is stored under key.
func (f Form) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns the parameter names in order.
func (f Form) Keys() []string {
	return lo.Map(f, func(p Param, _ int) string { return p.Key })
}

// WithPrefix returns the parameters whose key starts with prefix.
func (f Form) WithPrefix(prefix string) Form {
	return lo.Filter(f, func(p Param, _ int) bool { return strings.HasPrefix(p.Key, prefix) })
}

// Encode renders the form as application/x-www-form-urlencoded, preserving order.
func (f Form) Encode() string {
	var sb strings.Builder
	for i, p := range f {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
