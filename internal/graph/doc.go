// Package graph holds the local authoritative copy of a workflow graph.
//
// The store applies every mutation as a whole-collection replacement:
//   - Load swaps both collections on fetch and reconciliation
//   - CreateNode/UpdateNode handle user-initiated structural edits
//   - PatchNodes/PatchEdges apply predicate patches, preserving the
//     identity of elements the predicate does not match
//
// Readers (the rendering surface, selection derivation) always observe a
// fully-formed snapshot; partial states are never visible. The status field
// of nodes and edges is owned by the overlay package and is the only field
// it touches.
package graph
