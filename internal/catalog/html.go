package catalog

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rcliao/semplan/internal/model"
)

// OfferedTitle is the tooltip of the icon marking a course as currently open.
const OfferedTitle = "Hiện đang mở"

// Column positions in the catalog table.
const (
	colSeq = iota
	colCode
	colName
	colNameEN
	colOffered
	colDepartment
	colCategory
	colLegacyCode
	colEquivalents
	colCorequisites
	colPrerequisites
	colTheoryCredits
	colPracticeCredits
)

// ParseHTML extracts course records from the body rows of every
// table.tablesorter on the page, in document order. Rows without a course
// code are skipped.
func ParseHTML(r io.Reader) ([]model.Course, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findNode(doc, isCatalogTable)
	if table == nil {
		return nil, fmt.Errorf("catalog table not found")
	}

	var courses []model.Course
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.Tr || !inCatalogBody(n) {
			return
		}
		if c, ok := parseRow(cells(n)); ok {
			courses = append(courses, c)
		}
	})
	return courses, nil
}

func isCatalogTable(n *html.Node) bool {
	return n.DataAtom == atom.Table && hasClass(n, "tablesorter")
}

// inCatalogBody matches the selector "table.tablesorter tbody tr".
func inCatalogBody(tr *html.Node) bool {
	inBody := false
	for p := tr.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Tbody {
			inBody = true
			continue
		}
		if inBody && isCatalogTable(p) {
			return true
		}
	}
	return false
}

func parseRow(tds []*html.Node) (model.Course, bool) {
	cell := func(i int) *html.Node {
		if i < len(tds) {
			return tds[i]
		}
		return nil
	}

	c := model.Course{
		Seq:             cellText(cell(colSeq)),
		Code:            cellText(cell(colCode)),
		Name:            cellText(cell(colName)),
		NameEN:          cellText(cell(colNameEN)),
		Offered:         offered(cell(colOffered)),
		Department:      cellText(cell(colDepartment)),
		Category:        cellText(cell(colCategory)),
		LegacyCode:      cellText(cell(colLegacyCode)),
		Equivalents:     cellList(cell(colEquivalents)),
		Corequisites:    cellList(cell(colCorequisites)),
		Prerequisites:   cellList(cell(colPrerequisites)),
		TheoryCredits:   leadingInt(cellText(cell(colTheoryCredits))),
		PracticeCredits: leadingInt(cellText(cell(colPracticeCredits))),
	}
	if c.Code == "" {
		return model.Course{}, false
	}
	return model.NewCourse(c), true
}

func cells(tr *html.Node) []*html.Node {
	var tds []*html.Node
	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			tds = append(tds, n)
		}
	}
	return tds
}

func cellText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return normalize(b.String())
}

// cellList splits a cell on <br> into its non-empty text lines.
func cellList(n *html.Node) []string {
	if n == nil {
		return []string{}
	}
	out := []string{}
	var b strings.Builder
	flush := func() {
		if s := normalize(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	walk(n, func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.DataAtom == atom.Br:
			flush()
		}
	})
	flush()
	return out
}

func offered(n *html.Node) bool {
	if n == nil {
		return false
	}
	img := findNode(n, func(n *html.Node) bool { return n.DataAtom == atom.Img })
	return img != nil && attr(img, "title") == OfferedTitle
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// leadingInt parses the leading digits of s, returning 0 when there are none.
func leadingInt(s string) int {
	n := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			if i == 0 {
				return 0
			}
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
