package orbital

import (
	"encoding/xml"
	"strings"
	"unicode"

	pkgerrors "github.com/opentransact/orbital/pkg/errors"
)

// ParsedResponse is the flat mapping of leaf element names to their text,
// keyed by lower_snake_case tag name.
type ParsedResponse map[string]string

// Get returns the value for a field, or "" when absent.
func (r ParsedResponse) Get(field string) string {
	return r[field]
}

// Has reports whether the field appeared in the response at all. An
// empty element still counts as present.
func (r ParsedResponse) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// xmlElement is a generic document node used to walk arbitrary response
// shapes without declaring a struct per document type.
type xmlElement struct {
	XMLName  xml.Name
	Children []xmlElement `xml:",any"`
	Text     string       `xml:",chardata"`
}

// parseResponse flattens the first Response element of the document, or
// the first ErrorResponse when no Response exists. A document with
// neither root yields an empty mapping, not an error: downstream
// classification then reports failure through the absent fields.
// Malformed XML fails with an XMLParseError.
func parseResponse(body []byte) (ParsedResponse, error) {
	var doc xmlElement
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &pkgerrors.XMLParseError{Cause: err}
	}

	out := make(ParsedResponse)
	root := findElement(&doc, "Response")
	if root == nil {
		root = findElement(&doc, "ErrorResponse")
	}
	if root == nil {
		return out, nil
	}

	flattenElement(root, out)
	return out, nil
}

// findElement locates the first element with the given name anywhere in
// the document, depth first, including the document root itself.
func findElement(el *xmlElement, name string) *xmlElement {
	if el.XMLName.Local == name {
		return el
	}
	for i := range el.Children {
		if found := findElement(&el.Children[i], name); found != nil {
			return found
		}
	}
	return nil
}

// flattenElement records every leaf descendant of el. An element with
// children never becomes a key itself; for duplicate tag names the
// last-seen value wins.
func flattenElement(el *xmlElement, out ParsedResponse) {
	for i := range el.Children {
		child := &el.Children[i]
		if len(child.Children) > 0 {
			flattenElement(child, out)
		} else {
			out[underscore(child.XMLName.Local)] = strings.TrimSpace(child.Text)
		}
	}
}

// underscore converts a wire tag name to lower_snake_case, splitting
// acronym runs: TxRefNum -> tx_ref_num, CCAccountNum -> cc_account_num,
// CVV2RespCode -> cvv2_resp_code.
func underscore(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
