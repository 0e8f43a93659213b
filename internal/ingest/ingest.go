// Package ingest loads hire-count and restriction CSV files into the
// canonical shapes the pipeline works with.
package ingest
