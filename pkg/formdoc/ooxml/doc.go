// Package ooxml provides element-level helpers for editing WordprocessingML parts.
//
// DOCX files are ZIP archives holding XML parts. This package works on the main
// document part (word/document.xml) after it has been parsed into a generic tree with
// github.com/beevik/etree, and exposes thin typed views over the elements go-formdoc
// cares about.
//
// # Structure Organization
//
//   - types.go: namespace URIs, prefix lookup and ordered property insertion
//   - document.go: Document and its Body (top-level paragraphs and tables)
//   - paragraph.go: Paragraph and Run views, text collapse, spacing and alignment
//   - table.go: Table and Cell views, vertical alignment
//   - drawing.go: inline picture markup and EMU conversion
//   - rewrite.go: generic tree walk and attribute rewriting
//
// # Key Concepts
//
// Views never copy: a Paragraph wraps the *etree.Element of a w:p and every change is
// made directly on the tree. Callers that need isolation parse a fresh Document per
// request.
//
// Element lookups match on local names so documents using an unusual prefix for the
// main namespace still parse. Elements created by this package always use the
// conventional prefixes (w, r, wp, a, pic).
//
// Example:
//
//	doc, err := ooxml.ParseDocument(data)
//	if err != nil {
//	    return err
//	}
//	for _, p := range doc.Body().Paragraphs() {
//	    fmt.Println(p.Text())
//	}
package ooxml
