package render

import (
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// Node is a node marker and its label. Pos is in world space.
type Node struct {
	Key       hierarchy.StableID `json:"key"`
	ID        hierarchy.NodeID   `json:"id"`
	Label     string             `json:"label"`
	Depth     int                `json:"depth"`
	Pos       viewport.Point     `json:"pos"`
	Opacity   float64            `json:"opacity"`
	Collapsed bool               `json:"collapsed,omitempty"`
	Leaf      bool               `json:"leaf,omitempty"`
	Focus     bool               `json:"focus,omitempty"`
	Exiting   bool               `json:"exiting,omitempty"`
}

// Link connects a parent to a child. Src and Dst are in world space.
type Link struct {
	Key     hierarchy.StableID `json:"key"`
	Src     viewport.Point     `json:"src"`
	Dst     viewport.Point     `json:"dst"`
	Opacity float64            `json:"opacity"`
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Canvas    viewport.Size      `json:"canvas"`
	Transform viewport.Transform `json:"transform"`
	Nodes     []Node             `json:"nodes"`
	Links     []Link             `json:"links"`
	Focus     hierarchy.StableID `json:"focus,omitempty"`
	Dragging  hierarchy.StableID `json:"dragging,omitempty"`
	Active    bool               `json:"active"` // transitions still running
}

// Find returns the scene node with the given key.
func (s *Scene) Find(key hierarchy.StableID) (Node, bool) {
	for _, n := range s.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}
