package bni

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lc-at/bni-api/internal/scraper/bank"
)

// ExcludedFieldPrefix marks framework-internal navigation fields. They are
// left out of a submission unless explicitly allowed.
const ExcludedFieldPrefix = "__"

// Fields is an ordered form field mapping. Setting an existing name keeps its
// original position.
type Fields struct {
	names  []string
	values map[string]string
}

// NewFields builds Fields from name, value pairs.
func NewFields(pairs ...string) *Fields {
	if len(pairs)%2 != 0 {
		panic("bni.NewFields: odd number of arguments")
	}
	f := &Fields{}
	for i := 0; i < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

func (f *Fields) Set(name, value string) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

func (f *Fields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *Fields) Delete(name string) {
	if _, ok := f.values[name]; !ok {
		return
	}
	delete(f.values, name)
	f.names = slices.DeleteFunc(f.names, func(n string) bool { return n == name })
}

// Names returns the field names in insertion order.
func (f *Fields) Names() []string {
	return slices.Clone(f.names)
}

func (f *Fields) Len() int {
	return len(f.names)
}

// Merge applies other on top of f. Values from other always win.
func (f *Fields) Merge(other *Fields) {
	if other == nil {
		return
	}
	for _, name := range other.names {
		f.Set(name, other.values[name])
	}
}

// Encode renders the fields as an application/x-www-form-urlencoded body,
// keeping insertion order.
func (f *Fields) Encode() string {
	var b strings.Builder
	for i, name := range f.names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.values[name]))
	}
	return b.String()
}

// ExtractFields collects every input with a name attribute below sel. A name
// starting with excludedPrefix is dropped unless allow contains it; an empty
// prefix keeps every field.
func ExtractFields(sel *goquery.Selection, allow []string, excludedPrefix string) *Fields {
	fields := &Fields{}
	sel.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		if excludedPrefix != "" && strings.HasPrefix(name, excludedPrefix) && !slices.Contains(allow, name) {
			return
		}
		fields.Set(name, input.AttrOr("value", ""))
	})
	return fields
}

// Form is a snapshot of the page's named form, ready to be submitted.
type Form struct {
	Action string
	Fields *Fields
}

// ExtractForm reads the single named form of doc and resolves its action
// against base.
func ExtractForm(doc *goquery.Document, base *url.URL, allow []string, excludedPrefix string) (*Form, error) {
	form := doc.Find(SelectorForm).First()
	if form.Length() == 0 {
		return nil, fmt.Errorf("%w: %s not found", bank.ErrUnexpectedPageShape, SelectorForm)
	}

	action, ok := form.Attr("action")
	if !ok {
		return nil, fmt.Errorf("%w: %s has no action", bank.ErrUnexpectedPageShape, SelectorForm)
	}
	target, err := resolveURL(base, action)
	if err != nil {
		return nil, err
	}

	return &Form{
		Action: target,
		Fields: ExtractFields(form, allow, excludedPrefix),
	}, nil
}

func resolveURL(base *url.URL, ref string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("%w: bad link %q: %v", bank.ErrUnexpectedPageShape, ref, err)
	}
	if base == nil {
		return parsed.String(), nil
	}
	return base.ResolveReference(parsed).String(), nil
}
