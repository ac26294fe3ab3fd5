// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to pull
// plain text out of one format, with its own fallbacks.
//
// Extractors are registered with the ExtractionService at startup.
package extractors
