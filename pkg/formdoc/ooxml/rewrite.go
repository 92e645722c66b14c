package ooxml

import (
	"github.com/beevik/etree"
)

// AttrPredicate reports whether attr on el holds an identifier that should be
// rewritten.
type AttrPredicate func(el *etree.Element, attr etree.Attr) bool

// Walk calls fn for root and every element below it, depth first, in document order.
func Walk(root *etree.Element, fn func(el *etree.Element)) {
	if root == nil {
		return
	}
	fn(root)
	for _, child := range root.ChildElements() {
		Walk(child, fn)
	}
}

// RewriteAttrs replaces, in root and all of its descendants, the value of every
// attribute accepted by match whose value is a key of mapping. Values without a
// mapping are left untouched. It returns the number of attributes changed.
func RewriteAttrs(root *etree.Element, match AttrPredicate, mapping map[string]string) int {
	if len(mapping) == 0 {
		return 0
	}
	changed := 0
	Walk(root, func(el *etree.Element) {
		for i := range el.Attr {
			if !match(el, el.Attr[i]) {
				continue
			}
			if newValue, ok := mapping[el.Attr[i].Value]; ok {
				el.Attr[i].Value = newValue
				changed++
			}
		}
	})
	return changed
}

// CollectAttrs returns, in document order, the values of every attribute accepted
// by match in root and its descendants.
func CollectAttrs(root *etree.Element, match AttrPredicate) []string {
	var values []string
	Walk(root, func(el *etree.Element) {
		for _, attr := range el.Attr {
			if match(el, attr) {
				values = append(values, attr.Value)
			}
		}
	})
	return values
}

// RelationshipReference matches attributes in the relationships namespace whose
// local name is one of names, for example "embed", "link" or "id".
func RelationshipReference(names ...string) AttrPredicate {
	accepted := make(map[string]bool, len(names))
	for _, name := range names {
		accepted[name] = true
	}
	return func(el *etree.Element, attr etree.Attr) bool {
		if attr.Space == "" || attr.Space == "xmlns" || !accepted[attr.Key] {
			return false
		}
		return NamespaceURI(el, attr.Space) == RelationshipsNS
	}
}

var (
	blipReference      = RelationshipReference("embed", "link")
	imagedataReference = RelationshipReference("embed", "link", "id")
)

// ImageReference matches r:embed and r:link, the attributes through which drawings
// point at media relationships, plus r:id on VML v:imagedata.
var ImageReference AttrPredicate = func(el *etree.Element, attr etree.Attr) bool {
	if el.Tag == "imagedata" {
		return imagedataReference(el, attr)
	}
	return blipReference(el, attr)
}
