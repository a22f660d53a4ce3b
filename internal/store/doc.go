// Package store provides durable storage for validated graphs.
//
// Graphs are content-addressed: the primary key is graph.GraphID, computed
// from the canonical JSON form, so writing the same graph twice is a no-op
// and two names can share one stored graph body. Loading a graph
// reconstructs its node list and re-enters it through graph.NewGraph - a
// graph read back from disk is still only producible via validation.
package store
