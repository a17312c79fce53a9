// Package source reads raw records from input files.
//
// The reader is chosen from the detected MIME type, falling back to the
// file extension when detection only finds generic text:
//
//	text/csv, text/plain                 comma separated, header row first
//	text/tab-separated-values            tab separated, header row first
//	application/json, application/x-ndjson
//	                                     one object, an array of objects or
//	                                     one object per line
//
// CSV values are strings. JSON numbers are kept as json.Number so no
// precision is lost before schema validation.
package source
