// Package model holds the rental records and the derived analysis rows shared
// by the friction engine, the loaders and the HTTP layer.
package model
