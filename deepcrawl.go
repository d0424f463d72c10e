// Package deepcrawl provides a priority-driven web crawl traversal engine.
// It decides which discovered URL to fetch next, enforces depth and page
// budgets, discovers and validates new links, and streams or batches the
// fetched pages back to the caller.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/), and the
// traversal itself lives in crawl/.
package deepcrawl
