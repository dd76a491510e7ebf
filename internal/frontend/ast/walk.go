package ast

import (
	"hegel/internal/source"
)

// Handlers carries the visitor callbacks for a traversal. Any of them may
// be nil. Pre runs before a node's children; returning false prunes the
// subtree. Middle runs over each child of a sequence before the children
// are descended into. Post runs after all children.
type Handlers struct {
	Pre    func(node, parent *Node) bool
	Middle func(node, parent *Node)
	Post   func(node, parent *Node)

	// OnUnreachable is invoked with the location of a statement that can
	// never execute because an earlier sibling terminated control flow.
	// When nil, unreachable detection is off for this traversal.
	OnUnreachable func(loc source.Location)
}

// Walk performs a depth-first traversal of the tree rooted at node. Every
// node is normalized before it is visited. The parent passed to handlers is
// the effective parent computed by childParent, not the syntactic parent;
// nil for top-level nodes. A scope-creating node nested directly in another
// scope creator (other than a function body) keeps the incoming parent.
//
// The return value reports whether the node itself is a return or throw
// statement, which the caller uses for unreachable detection. A block that
// ends in a return or throw does not report itself as terminating.
func Walk(node *Node, h Handlers) bool {
	return walk(node, nil, h)
}

func walk(node, parent *Node, h Handlers) bool {
	if node == nil {
		return false
	}
	node = Normalize(node)

	if h.Pre != nil && !h.Pre(node, parent) {
		return false
	}

	if seq, single := childrenOf(node); single != nil {
		walk(single, childParent(node, single, parent), h)
	} else if len(seq) > 0 {
		if h.Middle != nil {
			for _, child := range seq {
				if child != nil {
					h.Middle(child, parent)
				}
			}
		}
		for i, child := range seq {
			if child == nil {
				continue
			}
			dead := walk(child, childParent(node, child, parent), h)
			if dead && i < len(seq)-1 && h.OnUnreachable != nil {
				h.OnUnreachable(seq[i+1].Loc)
			}
		}
	}

	if h.Post != nil {
		h.Post(node, parent)
	}

	return node.Type == ReturnStatement || node.Type == ThrowStatement
}

// childParent computes the effective parent for a child during descent:
// the current node when it creates a scope and the child does not, or when
// the child is a function body; otherwise the incoming parent.
func childParent(node, child, parent *Node) *Node {
	if node.Type.IsScopeCreator() && !child.Type.IsScopeCreator() {
		return node
	}
	if node.Type.IsFunctionLike() && child == node.BodyNode {
		return node
	}
	return parent
}

// childrenOf computes the children of a node by the prioritized field list:
// a body, then declarations, then properties, then the concatenation of the
// structural single-valued fields. A single body child is returned
// separately so the walker can recurse without treating it as a sequence.
func childrenOf(n *Node) ([]*Node, *Node) {
	switch {
	case n.Body != nil:
		return n.Body, nil
	case n.BodyNode != nil:
		return nil, n.BodyNode
	case n.Declarations != nil:
		return n.Declarations, nil
	case n.Properties != nil:
		return n.Properties, nil
	}

	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(n.Block)
	add(n.Handler)
	add(n.Finalizer)
	add(n.Consequent)
	add(n.Alternate)
	add(n.Value)
	if n.Init != nil {
		add(n.Init.Callee)
	}
	add(n.Init)
	add(n.Object)
	add(n.Property)
	add(n.Left)
	add(n.Right)
	add(n.Argument)
	if n.Expression != nil {
		add(n.Expression.Callee)
	}
	add(n.Expression)
	add(n.Callee)
	out = append(out, n.Elements...)
	return out, nil
}
