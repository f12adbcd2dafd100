package graphapi

// GraphNode represents the encapsulation of an individual functionality within a Graph
type GraphNode struct {
	ID           int                    `json:"id"`
	Type         string                 `json:"type"`
	Position     Pos                    `json:"pos"`
	Size         Size                   `json:"size"`
	Flags        map[string]interface{} `json:"flags"`
	Order        int                    `json:"order"`
	Mode         int                    `json:"mode"`
	Title        string                 `json:"title,omitempty"`
	Properties   map[string]interface{} `json:"properties"` // node properties, not value properties!
	WidgetValues []interface{}          `json:"widgets_values"`
	Inputs       []Slot                 `json:"inputs"`
	Outputs      []Slot                 `json:"outputs"`
	Graph        *Graph                 `json:"-"`
}

// GetNodeForInput returns the node feeding the given input slot, or nil when
// the slot is unconnected.
func (n *GraphNode) GetNodeForInput(slotIndex int) *GraphNode {
	if slotIndex >= len(n.Inputs) {
		return nil
	}

	slot := n.Inputs[slotIndex]
	l := n.Graph.GetLinkById(slot.Link)
	if l == nil {
		return nil
	}
	return n.Graph.GetNodeById(l.OriginID)
}

func (n *GraphNode) GetInputLink(slotIndex int) *Link {
	ncount := len(n.Inputs)
	if ncount == 0 || slotIndex >= ncount {
		return nil
	}

	slot := n.Inputs[slotIndex]
	return n.Graph.GetLinkById(slot.Link)
}

func (n *GraphNode) GetInputWithName(name string) *Slot {
	for i, s := range n.Inputs {
		if s.Name == name {
			return &n.Inputs[i]
		}
	}
	return nil
}

// GetNodeForInputNamed resolves the named input slot through the link table
// to its source node.
func (n *GraphNode) GetNodeForInputNamed(name string) *GraphNode {
	for i, s := range n.Inputs {
		if s.Name == name {
			return n.GetNodeForInput(i)
		}
	}
	return nil
}
