package document

import (
	"encoding/json"
	"fmt"
)

// wireNode is the serialized form of every node. Field names follow the
// editor JSON conventions so exported trees can be inspected by hosts.
type wireNode struct {
	Type     string            `json:"type"`
	Children []wireNode        `json:"children,omitempty"`
	Text     string            `json:"text,omitempty"`
	Format   Format            `json:"format,omitempty"`
	Level    int               `json:"level,omitempty"`
	ListType ListType          `json:"listType,omitempty"`
	Start    int               `json:"start,omitempty"`
	Checked  bool              `json:"checked,omitempty"`
	Language string            `json:"language,omitempty"`
	URL      string            `json:"url,omitempty"`
	Title    string            `json:"title,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// MarshalJSON encodes the document as nested {"type": ...} objects.
func (r *Root) MarshalJSON() ([]byte, error) {
	root := wireNode{Type: string(KindRoot), Children: make([]wireNode, 0, len(r.Children))}
	for _, block := range r.Children {
		root.Children = append(root.Children, encodeBlock(block))
	}
	return json.Marshal(root)
}

// UnmarshalJSON decodes a document without schema validation. Use Decode to
// validate untrusted input first.
func (r *Root) UnmarshalJSON(data []byte) error {
	var wire wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	decoded, err := decodeRoot(wire)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

func encodeBlock(block Block) wireNode {
	switch b := block.(type) {
	case *Paragraph:
		return wireNode{Type: string(KindParagraph), Children: encodeInlines(b.Children)}
	case *Heading:
		return wireNode{Type: string(KindHeading), Level: b.Level, Children: encodeInlines(b.Children)}
	case *Quote:
		return wireNode{Type: string(KindQuote), Children: encodeInlines(b.Children)}
	case *List:
		return encodeList(b)
	case *Code:
		return wireNode{Type: string(KindCode), Language: b.Language, Text: b.Text}
	case *HorizontalRule:
		return wireNode{Type: string(KindHorizontalRule)}
	case *Custom:
		return wireNode{Type: string(b.Type), Text: b.Text, Attrs: b.Attrs, Children: encodeInlines(b.Children)}
	default:
		return wireNode{Type: string(block.Kind())}
	}
}

func encodeList(list *List) wireNode {
	node := wireNode{Type: string(KindList), ListType: list.Type, Start: list.Start}
	for _, item := range list.Items {
		entry := wireNode{Type: string(KindListItem), Checked: item.Checked}
		if item.Sublist != nil {
			entry.Children = []wireNode{encodeList(item.Sublist)}
		} else {
			entry.Children = encodeInlines(item.Children)
		}
		node.Children = append(node.Children, entry)
	}
	return node
}

func encodeInlines(nodes []Inline) []wireNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]wireNode, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			out = append(out, wireNode{Type: string(KindText), Text: n.Text, Format: n.Format})
		case *LineBreak:
			out = append(out, wireNode{Type: string(KindLineBreak)})
		case *Link:
			out = append(out, wireNode{Type: string(KindLink), URL: n.URL, Title: n.Title, Children: encodeInlines(n.Children)})
		case *CustomInline:
			out = append(out, wireNode{Type: string(n.Type), Text: n.Text, Attrs: n.Attrs})
		}
	}
	return out
}

func decodeRoot(wire wireNode) (*Root, error) {
	if wire.Type != string(KindRoot) {
		return nil, fmt.Errorf("document: expected root node, got %q", wire.Type)
	}
	root := NewRoot()
	for _, child := range wire.Children {
		block, err := decodeBlock(child)
		if err != nil {
			return nil, err
		}
		root.Append(block)
	}
	return root, nil
}

func decodeBlock(wire wireNode) (Block, error) {
	switch Kind(wire.Type) {
	case KindParagraph:
		children, err := decodeInlines(wire.Children)
		return &Paragraph{Children: children}, err
	case KindHeading:
		children, err := decodeInlines(wire.Children)
		return &Heading{Level: wire.Level, Children: children}, err
	case KindQuote:
		children, err := decodeInlines(wire.Children)
		return &Quote{Children: children}, err
	case KindList:
		return decodeList(wire)
	case KindCode:
		return &Code{Language: wire.Language, Text: wire.Text}, nil
	case KindHorizontalRule:
		return &HorizontalRule{}, nil
	case KindRoot, KindListItem, KindText, KindLineBreak, KindLink, "":
		return nil, fmt.Errorf("document: %q is not a block node", wire.Type)
	default:
		children, err := decodeInlines(wire.Children)
		return &Custom{Type: Kind(wire.Type), Attrs: wire.Attrs, Text: wire.Text, Children: children}, err
	}
}

func decodeList(wire wireNode) (*List, error) {
	list := &List{Type: wire.ListType, Start: wire.Start}
	if list.Type == "" {
		list.Type = ListBullet
	}
	for _, child := range wire.Children {
		if Kind(child.Type) != KindListItem {
			return nil, fmt.Errorf("document: list children must be list items, got %q", child.Type)
		}
		item := &ListItem{Checked: child.Checked}
		if len(child.Children) == 1 && Kind(child.Children[0].Type) == KindList {
			sub, err := decodeList(child.Children[0])
			if err != nil {
				return nil, err
			}
			item.Sublist = sub
		} else {
			inlines, err := decodeInlines(child.Children)
			if err != nil {
				return nil, err
			}
			item.Children = inlines
		}
		list.Append(item)
	}
	return list, nil
}

func decodeInlines(wires []wireNode) ([]Inline, error) {
	if len(wires) == 0 {
		return nil, nil
	}
	out := make([]Inline, 0, len(wires))
	for _, wire := range wires {
		switch Kind(wire.Type) {
		case KindText:
			out = append(out, &Text{Text: wire.Text, Format: wire.Format})
		case KindLineBreak:
			out = append(out, &LineBreak{})
		case KindLink:
			children, err := decodeInlines(wire.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, &Link{URL: wire.URL, Title: wire.Title, Children: children})
		case KindRoot, KindParagraph, KindHeading, KindQuote, KindList, KindListItem, KindCode, KindHorizontalRule, "":
			return nil, fmt.Errorf("document: %q is not an inline node", wire.Type)
		default:
			out = append(out, &CustomInline{Type: Kind(wire.Type), Attrs: wire.Attrs, Text: wire.Text})
		}
	}
	return out, nil
}
