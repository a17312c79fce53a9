// Package mapping loads providers declared in YAML and compiles them into
// provider.Provider values.
//
// Declared providers are appended to the built-in catalog, so a new
// upstream format can be supported without a rebuild as long as it only
// needs renames, date reformatting, joins and constants.
//
// # Schema Overview
//
//	version: "1"
//	providers:
//	  - name: bank4
//	    # identification rule, checked like a canonical schema
//	    ident:
//	      - {name: booked, kind: date, format: "%d/%m/%Y"}
//	      - {name: direction, kind: enum, values: [remove, add]}
//	      - {name: whole, kind: integer, gte: 0}
//	      - {name: fraction, kind: integer, gte: 0}
//	      - {name: payer, kind: integer, gte: 0}
//	      - {name: payee, kind: integer, gte: 0}
//	    transforms:
//	      CSV_V1:
//	        # simplified 1:1 renames
//	        121:
//	          booked: timestamp
//	          direction: type
//	          payer: from
//	          payee: to
//	        # full field mappings
//	        fields:
//	          - target: amount
//	            source: [whole, fraction]
//	            join: "."
//
// # Field kinds
//
// string, integer (alias int), float, date and enum, with the constraints
// gt, gte, lt and lte for numbers, format for dates, values for enums and
// allow_blank for strings.
//
// # Mapping rules
//
// A transform starts from a copy of the record, so ident fields whose name
// already matches the target are carried over. A carried date is
// reformatted when the formats differ; any other carried field must be of
// a kind the target accepts as is (the same kind, integer into float, or
// enum and date into string). Then every mapping assigns one target field:
//
//   - a single source is copied; when both the ident field and the target
//     field are dates it is reparsed with the ident format and rendered
//     with the target format
//   - several sources are joined with the join separator; integer sources
//     are rendered without padding first, so 1060 and 06 join as "1060.6"
//   - a mapping without a source assigns its default
//
// Sources must be ident fields, which keeps every transform total over the
// records its provider accepts.
package mapping
