package convert

import (
	"github.com/google/uuid"

	"github.com/halverson/comfyscan/graphapi"
)

// slotSpec declares one input or output slot at node creation time.
type slotSpec struct {
	name     string
	typeName string
}

// pendingLink is one edge recorded during building. Slot bindings on both
// endpoints are computed once, in the final resolution pass, rather than
// mutated onto the nodes as links are created.
type pendingLink struct {
	id         int
	originID   int
	originSlot int
	targetID   int
	targetSlot int
	typeName   string
}

// builder accumulates immutable node records in an arena ordered by
// assigned id. Node ids increase monotonically from the configured start,
// link ids from 1.
type builder struct {
	nextNodeID int
	nextLinkID int
	nodes      []*graphapi.GraphNode
	links      []pendingLink
	cursorY    float64
}

func newBuilder(startNodeID int) *builder {
	if startNodeID <= 0 {
		startNodeID = 1
	}
	return &builder{
		nextNodeID: startNodeID,
		nextLinkID: 1,
	}
}

// coreVersion is written into every node's properties; the editor uses it
// to resolve the node pack a type came from.
const coreVersion = "0.3.40"

func (b *builder) addNode(nodeType string, widgets []interface{}, inputs []slotSpec, outputs []slotSpec) *graphapi.GraphNode {
	node := &graphapi.GraphNode{
		ID:       b.nextNodeID,
		Type:     nodeType,
		Position: graphapi.Pos{X: 100, Y: b.cursorY},
		Size:     graphapi.Size{Width: 270, Height: 100},
		Flags:    map[string]interface{}{},
		Mode:     0,
		Properties: map[string]interface{}{
			"cnr_id":            "comfy-core",
			"ver":               coreVersion,
			"Node name for S&R": nodeType,
		},
		WidgetValues: widgets,
	}
	for _, in := range inputs {
		node.Inputs = append(node.Inputs, graphapi.Slot{Name: in.name, Type: in.typeName})
	}
	for i, out := range outputs {
		idx := i
		node.Outputs = append(node.Outputs, graphapi.Slot{Name: out.name, Type: out.typeName, SlotIndex: &idx})
	}
	b.nextNodeID++
	b.cursorY += 140
	b.nodes = append(b.nodes, node)
	return node
}

// connect records a link from origin's output slot to target's input slot.
func (b *builder) connect(origin *graphapi.GraphNode, originSlot int, target *graphapi.GraphNode, targetSlot int, typeName string) {
	b.links = append(b.links, pendingLink{
		id:         b.nextLinkID,
		originID:   origin.ID,
		originSlot: originSlot,
		targetID:   target.ID,
		targetSlot: targetSlot,
		typeName:   typeName,
	})
	b.nextLinkID++
}

// build runs the resolution pass and assembles the final graph: each link
// back-fills the link field on the consuming input slot and the links array
// on the producing output slot, and the last ids are set to the maxima.
func (b *builder) build() *graphapi.Graph {
	graph := &graphapi.Graph{
		UID:      uuid.New().String(),
		Revision: 0,
		Nodes:    b.nodes,
		Links:    make([]*graphapi.Link, 0, len(b.links)),
		Groups:   []interface{}{},
		Config:   map[string]interface{}{},
		Extra:    map[string]interface{}{},
		Version:  0.4,
	}

	byID := make(map[int]*graphapi.GraphNode, len(b.nodes))
	for _, n := range b.nodes {
		byID[n.ID] = n
	}

	for _, pl := range b.links {
		graph.Links = append(graph.Links, &graphapi.Link{
			ID:         pl.id,
			OriginID:   pl.originID,
			OriginSlot: pl.originSlot,
			TargetID:   pl.targetID,
			TargetSlot: pl.targetSlot,
			Type:       pl.typeName,
		})

		origin := byID[pl.originID]
		out := &origin.Outputs[pl.originSlot]
		if out.Links == nil {
			links := make([]int, 0, 1)
			out.Links = &links
		}
		*out.Links = append(*out.Links, pl.id)

		target := byID[pl.targetID]
		target.Inputs[pl.targetSlot].Link = pl.id
	}

	for _, n := range b.nodes {
		if n.ID > graph.LastNodeID {
			graph.LastNodeID = n.ID
		}
	}
	for _, l := range graph.Links {
		if l.ID > graph.LastLinkID {
			graph.LastLinkID = l.ID
		}
	}

	graph.BuildIndexes()
	return graph
}
