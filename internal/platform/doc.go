// Package platform provides cross-platform filesystem helpers for generated
// files. Generated files are kept read-only between runs; WithWritable opens a
// scoped window during which a finalized file may be edited and guarantees the
// previous mode is restored afterwards. On Windows permission changes are no-ops.
package platform
