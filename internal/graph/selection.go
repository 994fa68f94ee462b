package graph

// Selected derives the current selection: the first node, in collection
// order, whose selected flag is set. Selection is always a re-derivation
// over the node collection and has no independent state to drift.
func (s *Store) Selected() (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.nodes {
		if n.Selected {
			return n, true
		}
	}
	return nil, false
}

// SelectNode sets the selected flag on the node with the given ref and
// clears it everywhere else. Passing an absent or empty ref clears the
// selection entirely.
func (s *Store) SelectNode(ref string) {
	s.PatchNodes(
		func(n *Node) bool { return n.Selected != (n.Ref == ref) },
		func(n Node) Node {
			n.Selected = n.Ref == ref
			return n
		},
	)
}
