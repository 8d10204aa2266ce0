// Package notion is a client for the Notion API covering database queries and
// page creation/update, plus the typed property values and filter expressions
// the sync engine needs.
package notion

// TextContent is the inner text object of a rich text span.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is a single rich text span. PlainText is only populated on reads.
type RichText struct {
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// SelectOption is a select property option.
type SelectOption struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// DateValue is a date property value. Start is ISO 8601, date-only or full
// timestamp.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// PageRef references another page, as used in relation properties.
type PageRef struct {
	ID string `json:"id"`
}

// PropertyValue is a single page property. Exactly one of the value fields is
// set; the same shape round-trips both directions of the API.
type PropertyValue struct {
	Type     string        `json:"type,omitempty"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Relation []PageRef     `json:"relation,omitempty"`
}

// Properties is the property map sent on create/update and returned on reads.
type Properties map[string]PropertyValue

func NewTitle(content string) PropertyValue {
	return PropertyValue{Title: []RichText{{Text: &TextContent{Content: content}}}}
}

func NewRichText(content string) PropertyValue {
	return PropertyValue{RichText: []RichText{{Text: &TextContent{Content: content}}}}
}

func NewNumber(v float64) PropertyValue {
	return PropertyValue{Number: &v}
}

func NewDate(start string) PropertyValue {
	return PropertyValue{Date: &DateValue{Start: start}}
}

func NewSelect(name string) PropertyValue {
	return PropertyValue{Select: &SelectOption{Name: name}}
}

func NewRelation(ids ...string) PropertyValue {
	refs := make([]PageRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, PageRef{ID: id})
	}
	return PropertyValue{Relation: refs}
}

// Page is a database row.
type Page struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

// SelectName returns the selected option name of a select property, or ""
// when the property is absent or empty.
func (p *Page) SelectName(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || pv.Select == nil {
		return ""
	}
	return pv.Select.Name
}

// DateStart returns the start of a date property, or "" when absent.
func (p *Page) DateStart(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || pv.Date == nil {
		return ""
	}
	return pv.Date.Start
}

// RelationIDs returns the related page IDs of a relation property.
func (p *Page) RelationIDs(prop string) []string {
	pv, ok := p.Properties[prop]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(pv.Relation))
	for _, ref := range pv.Relation {
		ids = append(ids, ref.ID)
	}
	return ids
}

// NumberValue returns a number property value and whether it was present.
func (p *Page) NumberValue(prop string) (float64, bool) {
	pv, ok := p.Properties[prop]
	if !ok || pv.Number == nil {
		return 0, false
	}
	return *pv.Number, true
}
