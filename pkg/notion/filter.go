package notion

// Filter is a database query filter expression. It supports the composition
// the sync engine relies on: property equality, AND-composition, and
// inclusive date-range bounds.
type Filter struct {
	And      []*Filter        `json:"and,omitempty"`
	Property string           `json:"property,omitempty"`
	Number   *NumberCondition `json:"number,omitempty"`
	Select   *SelectCondition `json:"select,omitempty"`
	Date     *DateCondition   `json:"date,omitempty"`
	Title    *TextCondition   `json:"title,omitempty"`
}

type NumberCondition struct {
	Equals *float64 `json:"equals,omitempty"`
}

type SelectCondition struct {
	Equals string `json:"equals,omitempty"`
}

type DateCondition struct {
	Equals     string `json:"equals,omitempty"`
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type TextCondition struct {
	Equals string `json:"equals,omitempty"`
}

// And combines filters into a conjunction.
func And(filters ...*Filter) *Filter {
	return &Filter{And: filters}
}

// NumberEquals matches pages whose number property equals v.
func NumberEquals(property string, v float64) *Filter {
	return &Filter{Property: property, Number: &NumberCondition{Equals: &v}}
}

// SelectEquals matches pages whose select property has the named option.
func SelectEquals(property, name string) *Filter {
	return &Filter{Property: property, Select: &SelectCondition{Equals: name}}
}

// TitleEquals matches pages whose title property equals the given text.
func TitleEquals(property, text string) *Filter {
	return &Filter{Property: property, Title: &TextCondition{Equals: text}}
}

// DateEquals matches pages whose date property falls on the given day
// (ISO 8601 date, time-of-day ignored by the API).
func DateEquals(property, date string) *Filter {
	return &Filter{Property: property, Date: &DateCondition{Equals: date}}
}

// DateOnOrAfter matches dates >= the given day.
func DateOnOrAfter(property, date string) *Filter {
	return &Filter{Property: property, Date: &DateCondition{OnOrAfter: date}}
}

// DateOnOrBefore matches dates <= the given day.
func DateOnOrBefore(property, date string) *Filter {
	return &Filter{Property: property, Date: &DateCondition{OnOrBefore: date}}
}
