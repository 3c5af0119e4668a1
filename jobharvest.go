// Package jobharvest extracts structured job postings from heterogeneous
// company career pages, normalizes them through successive enrichment
// stages, and persists them to staging and catalog stores. Career pages
// differ wildly in rendering technique (static HTML, iframe-embedded
// third-party boards, client-rendered single-page apps, script-deferred
// pages), so extraction selects a rendering-aware strategy per site.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/).
package jobharvest
