package graphapi

// Slot represents a connection point within a GraphNode.
type Slot struct {
	Name      string `json:"name"`                 // The name of the slot
	Type      string `json:"type"`                 // The type of the data the slot accepts
	Link      int    `json:"link,omitempty"`       // Index of the link for an input slot
	Links     *[]int `json:"links,omitempty"`      // Array of links for output slots
	SlotIndex *int   `json:"slot_index,omitempty"` // Index of the Slot in relation to other Slots
}
