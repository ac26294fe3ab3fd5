// Package connectors provides document sources that feed the ingestion
// pipeline. Each connector discovers files in one kind of location and turns
// them into uploads.
package connectors
