// Package history keeps a local SQLite journal of feed events.
//
// Both binaries can record what they published or received, which makes it
// possible to see the last state a device saw after a restart or to compare
// the publisher and subscriber sides of one feed.
//
// Usage:
//
//	db, _ := database.Open(cfg.History)
//	_ = db.Migrate(ctx, migrations.FS)
//	journal := history.NewJournal(db.DB)
//	_ = journal.Record(ctx, event)
package history
