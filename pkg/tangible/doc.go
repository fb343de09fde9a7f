// Package tangible recognizes physical objects that touch a surface with
// three contact points.
//
// Touch contacts are tracked as Markers. A Manager collects unassigned
// markers and composes any three of them whose triangle is accepted by its
// policy into a Tangible. Each Tangible keeps the canonical Pattern of its
// triangle, follows its markers as they move, and estimates the position of
// markers that lift off until a new touch replaces them.
//
// Basic usage:
//
//	mgr, err := tangible.NewManager(
//	    tangible.WithWhitelistDisabled(true),
//	    tangible.WithAcceptPolicy(tangible.AcceptUnique),
//	    tangible.WithSink(sink),
//	)
//	if err != nil {
//	    return err
//	}
//
//	m := tangible.NewMarker(p, radius)
//	m.SetManager(mgr)
//	m.Began(p, radius)
package tangible
