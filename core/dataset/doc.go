// Package dataset turns a raw rental table into frozen RentalRecords and keeps
// one loaded copy per source for the lifetime of the process.
package dataset
