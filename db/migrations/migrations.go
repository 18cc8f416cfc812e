package migrations

import "embed"

// FS holds the schema for campaigns, brackets, pledges, invoices, payment
// intents and fulfillments. internal/db applies it through golang-migrate's
// iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service expects.
const Version = 1
