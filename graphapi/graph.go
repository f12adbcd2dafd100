package graphapi

import (
	"encoding/json"
	"fmt"
	"sort"
)

// allow us to order nodes by thier id
type ByNodeID []*GraphNode

func (a ByNodeID) Len() int           { return len(a) }
func (a ByNodeID) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByNodeID) Less(i, j int) bool { return a[i].ID < a[j].ID }

// Graph is the array-encoding workflow wire format used by the ComfyUI
// editor ecosystem. The field set is round-trip compatible with what the
// editor writes into saved files and PNG metadata.
type Graph struct {
	UID        string                 `json:"id,omitempty"`
	Revision   int                    `json:"revision"`
	LastNodeID int                    `json:"last_node_id"`
	LastLinkID int                    `json:"last_link_id"`
	Nodes      []*GraphNode           `json:"nodes"`
	Links      []*Link                `json:"links"`
	Groups     []interface{}          `json:"groups"`
	Config     map[string]interface{} `json:"config"`
	Extra      map[string]interface{} `json:"extra"`
	Version    float32                `json:"version"`
	NodesByID  map[int]*GraphNode     `json:"-"`
	LinksByID  map[int]*Link          `json:"-"`
}

func (t *Graph) UnmarshalJSON(b []byte) error {
	// Create an alias type to avoid recursive call to UnmarshalJSON
	type Alias Graph

	alias := &Alias{}
	if err := json.Unmarshal(b, alias); err != nil {
		return err
	}

	t.UID = alias.UID
	t.Revision = alias.Revision
	t.LastNodeID = alias.LastNodeID
	t.LastLinkID = alias.LastLinkID
	t.Nodes = alias.Nodes
	t.Links = alias.Links
	t.Groups = alias.Groups
	t.Config = alias.Config
	t.Extra = alias.Extra
	t.Version = alias.Version

	t.BuildIndexes()
	return nil
}

// BuildIndexes populates the by-id lookup maps and the node back-pointers.
// It is called automatically on unmarshal; builders that assemble a Graph
// directly call it once after the node and link sets are final.
func (t *Graph) BuildIndexes() {
	t.NodesByID = make(map[int]*GraphNode)
	t.LinksByID = make(map[int]*Link)

	for _, node := range t.Nodes {
		t.NodesByID[node.ID] = node
		// Give the node a pointer to it's parent graph
		node.Graph = t
	}
	for _, link := range t.Links {
		t.LinksByID[link.ID] = link
	}
}

func (t *Graph) GetLinkById(id int) *Link {
	val, ok := t.LinksByID[id]
	if ok {
		return val
	}
	return nil
}

func (t *Graph) GetNodeById(id int) *GraphNode {
	val, ok := t.NodesByID[id]
	if ok {
		return val
	}
	return nil
}

// GetNodesWithType retrieves all nodes in the graph that match a specified type.
func (t *Graph) GetNodesWithType(nodeType string) []*GraphNode {
	retv := make([]*GraphNode, 0)
	for _, n := range t.Nodes {
		if n.Type == nodeType {
			retv = append(retv, n)
		}
	}
	return retv
}

// NodeTypeSequence returns the types of all nodes ordered by node id.
func (t *Graph) NodeTypeSequence() []string {
	ordered := make([]*GraphNode, len(t.Nodes))
	copy(ordered, t.Nodes)
	sort.Sort(ByNodeID(ordered))
	retv := make([]string, 0, len(ordered))
	for _, n := range ordered {
		retv = append(retv, n.Type)
	}
	return retv
}

// Validate checks the structural invariants of the graph: node ids are
// unique, every link endpoint references an existing node, and
// last_node_id/last_link_id are no lower than the maximum assigned ids.
// The editor keeps the last ids as counters, so after node deletions they
// legitimately run ahead of the live maxima; only falling behind is an
// inconsistency.
func (t *Graph) Validate() error {
	seen := make(map[int]bool, len(t.Nodes))
	maxNode := 0
	for _, n := range t.Nodes {
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
		seen[n.ID] = true
		if n.ID > maxNode {
			maxNode = n.ID
		}
	}
	maxLink := 0
	for _, l := range t.Links {
		if !seen[l.OriginID] {
			return fmt.Errorf("link %d references missing origin node %d", l.ID, l.OriginID)
		}
		if !seen[l.TargetID] {
			return fmt.Errorf("link %d references missing target node %d", l.ID, l.TargetID)
		}
		if l.ID > maxLink {
			maxLink = l.ID
		}
	}
	if len(t.Nodes) > 0 && t.LastNodeID < maxNode {
		return fmt.Errorf("last_node_id is %d, below max assigned id %d", t.LastNodeID, maxNode)
	}
	if len(t.Links) > 0 && t.LastLinkID < maxLink {
		return fmt.Errorf("last_link_id is %d, below max assigned id %d", t.LastLinkID, maxLink)
	}
	return nil
}

func (t *Graph) GraphToJSON() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func NewGraphFromJSON(data []byte) (*Graph, error) {
	graph := &Graph{}
	if err := json.Unmarshal(data, graph); err != nil {
		return nil, err
	}
	return graph, nil
}
