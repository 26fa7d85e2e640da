// Package domain contains the core model for the parcel extraction pipeline.
//
// The domain is transport- and persistence-agnostic: it does not depend on
// HTTP, DXF encoding, or the filesystem. Infra/adapters map into/from these
// types. Projection math and geometry assembly live here because they are
// pure computation over domain values.
package domain
