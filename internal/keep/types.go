package keep

import (
	"strings"

	keep "google.golang.org/api/keep/v1"
)

// Note is the flat record returned for Keep notes.
type Note struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
	Trashed    bool   `json:"trashed"`
}

func toNote(n *keep.Note) Note {
	return Note{
		Name:       n.Name,
		Title:      n.Title,
		Content:    sectionText(n.Body),
		CreateTime: n.CreateTime,
		UpdateTime: n.UpdateTime,
		Trashed:    n.Trashed,
	}
}

// sectionText flattens a note body. List notes become one line per item,
// prefixed with their checkbox state.
func sectionText(s *keep.Section) string {
	if s == nil {
		return ""
	}
	if s.Text != nil {
		return s.Text.Text
	}
	if s.List == nil {
		return ""
	}

	var b strings.Builder
	writeListItems(&b, s.List.ListItems, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeListItems(b *strings.Builder, items []*keep.ListItem, depth int) {
	for _, item := range items {
		b.WriteString(strings.Repeat("  ", depth))
		if item.Checked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		if item.Text != nil {
			b.WriteString(item.Text.Text)
		}
		b.WriteString("\n")
		writeListItems(b, item.ChildListItems, depth+1)
	}
}

// noteName returns the resource name for a note ID, accepting either form.
func noteName(id string) string {
	if strings.HasPrefix(id, "notes/") {
		return id
	}
	return "notes/" + id
}
