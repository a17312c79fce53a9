package provider

import (
	"unifier/internal/record"
	"unifier/internal/schema"
)

// Date formats the built-in providers publish.
const (
	Bank1DateFormat = "%b %d %Y"
	Bank2DateFormat = "%d-%m-%Y"
	Bank3DateFormat = "%d %b %Y"
)

var operations = []string{"remove", "add"}

var (
	bank1 = MustNew("bank1",
		schema.MustNew("bank1",
			schema.Date("timestamp", Bank1DateFormat),
			schema.Enum("type", operations...),
			schema.Float("amount", schema.Gt(0)),
			schema.Integer("from", schema.Gte(0)),
			schema.Integer("to", schema.Gte(0)),
		),
		WithTransform(schema.CSVV1Name, bank1ToCSVV1),
	)

	bank2 = MustNew("bank2",
		schema.MustNew("bank2",
			schema.Date("date", Bank2DateFormat),
			schema.Enum("transaction", operations...),
			schema.Float("amounts", schema.Gt(0)),
			schema.Integer("from", schema.Gte(0)),
			schema.Integer("to", schema.Gte(0)),
		),
		WithTransform(schema.CSVV1Name, bank2ToCSVV1),
	)

	bank3 = MustNew("bank3",
		schema.MustNew("bank3",
			schema.Date("date_readable", Bank3DateFormat),
			schema.Enum("type", operations...),
			schema.Integer("euro", schema.Gte(0)),
			schema.Integer("cents", schema.Gte(0)),
			schema.Integer("to", schema.Gte(0)),
			schema.Integer("from", schema.Gte(0)),
		),
		WithTransform(schema.CSVV1Name, bank3ToCSVV1),
	)
)

// Bank1 publishes timestamp, type, amount, from and to, dated like
// "Oct 1 2019".
func Bank1() *Provider { return bank1 }

// Bank2 publishes date, transaction, amounts, from and to, dated like
// "04-10-2019".
func Bank2() *Provider { return bank2 }

// Bank3 publishes date_readable, type, euro, cents, to and from, dated like
// "6 Oct 2019", with the amount split into whole euros and cents.
func Bank3() *Provider { return bank3 }

// Builtin returns the built-in providers in catalog order.
func Builtin() []*Provider {
	return []*Provider{bank1, bank2, bank3}
}

func bank1ToCSVV1(rec record.Record) (record.Record, error) {
	if err := ReformatDate(rec, "timestamp", "timestamp", Bank1DateFormat, schema.TimestampFormat); err != nil {
		return nil, err
	}

	return rec, nil
}

func bank2ToCSVV1(rec record.Record) (record.Record, error) {
	if err := ReformatDate(rec, "date", "timestamp", Bank2DateFormat, schema.TimestampFormat); err != nil {
		return nil, err
	}

	Rename(rec, "transaction", "type")
	Rename(rec, "amounts", "amount")

	return rec, nil
}

// bank3ToCSVV1 glues euro and cents with a dot without padding, so 1060
// euro and 6 cents become "1060.6". Downstream consumers rely on this
// rendering.
func bank3ToCSVV1(rec record.Record) (record.Record, error) {
	if err := ReformatDate(rec, "date_readable", "timestamp", Bank3DateFormat, schema.TimestampFormat); err != nil {
		return nil, err
	}

	for _, field := range []string{"euro", "cents"} {
		if err := WholeNumber(rec, field); err != nil {
			return nil, err
		}
	}

	if err := Join(rec, "amount", ".", "euro", "cents"); err != nil {
		return nil, err
	}

	return rec, nil
}
