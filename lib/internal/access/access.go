// Package access holds the capability that unlocks in-place element
// updates of the tree engine. Only the packages under lib are able to
// import it, so the ordering key of a linked element stays out of reach
// for the module users.
package access

// Token is the proof of the caller being an adapter of the engine.
type Token struct{}
