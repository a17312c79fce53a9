// Package catalog holds the ordered set of known providers and decides
// which of them produced a record.
//
// Declaration order is significant: identification tries providers in
// order and the first whose rule accepts the record wins. Overlapping
// rules are therefore resolved by position, not by rejection.
package catalog
