// Package refdata provides the postal-code reference table.
//
// The table is a read-only snapshot of the postal codes the prediction
// model has training data for, exported from the training pipeline as a
// small CSV file. It is loaded once at startup and never re-fetched; the
// UI uses it for existence checks on submitted postal codes and for the
// autocomplete dropdown. Row order is preserved exactly as read.
package refdata
