// Package fanout resolves a list of Banner IDs to Duck IDs concurrently.
//
// One lookup is dispatched per ID. Results are written into a pre-sized slice
// at each ID's input index, so output order always matches input order no
// matter which lookups finish first.
//
// Example usage:
//
//	f := fanout.New(bannerAPI, fanout.DefaultConfig())
//	duckIDs, err := f.ResolveAll(ctx, roster.BannerIDs())
//
// Failure is all-or-nothing: if any lookup fails, ResolveAll waits for the
// in-flight lookups to finish and returns the first error with no results.
//
// MaxConcurrency is unbounded by default, so a roster of N people opens up to
// N simultaneous connections. Set it to cap the number of in-flight lookups.
package fanout
