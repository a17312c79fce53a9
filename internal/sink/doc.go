// Package sink writes canonical records.
package sink
