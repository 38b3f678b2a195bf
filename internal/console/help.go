package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"devconsole/internal/commands"
)

// HelpItem is one key/description row of a help section.
type HelpItem struct {
	Key  string
	Text string
}

// HelpSection is a titled group of help rows.
type HelpSection struct {
	Title string
	Items []HelpItem
}

// HelpDocument is the structured /help payload. Sections and rows keep their
// order when marshalled.
type HelpDocument struct {
	Sections []HelpSection
}

// HelpDocument builds the help payload from the built-ins and the current registry.
func (c *Console) HelpDocument() HelpDocument {
	doc := HelpDocument{Sections: []HelpSection{
		{Title: "Core Commands", Items: []HelpItem{
			{"/clear", "Clear all logs from the console"},
			{"/export", "Export all logs to a file (json or yaml)"},
			{"/help", "Show this help message"},
			{"/var", "Variable management (list, set, get, delete)"},
		}},
		{Title: "Variable Commands", Items: []HelpItem{
			{"/var", "List all defined variables"},
			{"/var set <name> <value>", "Set a variable (auto-detects type)"},
			{"/var get <name>", "Get a variable value"},
			{"/var delete <name>", "Delete a variable"},
			{"Usage", "Use ${varName} in any command to insert values"},
		}},
		{Title: "Expression Evaluation", Items: []HelpItem{
			{"> <expression>", "Evaluate a Go expression"},
			{"Example", "> 6 * 7"},
		}},
	}}

	registered := c.registry.List()
	index := map[string]int{}
	for _, name := range c.registry.Names() {
		title := extensionTitle(name)
		i, ok := index[title]
		if !ok {
			i = len(doc.Sections)
			index[title] = i
			doc.Sections = append(doc.Sections, HelpSection{Title: title})
		}

		description := registered[name].Description
		if description == "" {
			description = "No description"
		}
		doc.Sections[i].Items = append(doc.Sections[i].Items, HelpItem{"/" + name, description})
	}

	doc.Sections = append(doc.Sections, HelpSection{Title: "Tips", Items: []HelpItem{
		{"Autocomplete", "Press Tab to autocomplete commands"},
		{"History", "Use ↑/↓ arrows to navigate command history"},
		{"Quick Clear", `Type "clear" or "cls" (without /) to clear logs`},
		{"Escape", "Press Escape to close autocomplete menu"},
	}})
	return doc
}

// extensionTitle turns "http.get" into "Http Extension".
func extensionTitle(name string) string {
	prefix := commands.Namespace(name)
	if prefix == "" {
		prefix = name
	}
	r, size := utf8.DecodeRuneInString(prefix)
	return string(unicode.ToUpper(r)) + prefix[size:] + " Extension"
}

// Section returns the section with the given title.
func (h HelpDocument) Section(title string) (HelpSection, bool) {
	for _, s := range h.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return HelpSection{}, false
}

// MarshalJSON encodes the document as an object of objects, in order.
func (h HelpDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, section := range h.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, section.Title); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, item := range section.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, item.Key); err != nil {
				return nil, err
			}
			text, err := json.Marshal(item.Text)
			if err != nil {
				return nil, err
			}
			buf.Write(text)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// Markdown renders the document as markdown with one table per section.
func (h HelpDocument) Markdown() string {
	var b strings.Builder
	b.WriteString("# DevConsole Help\n")
	for _, section := range h.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n| Command | Description |\n|---|---|\n", section.Title)
		for _, item := range section.Items {
			fmt.Fprintf(&b, "| `%s` | %s |\n", escapeCell(item.Key), escapeCell(item.Text))
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
