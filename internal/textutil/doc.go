// Package textutil normalizes free-form names into filesystem-safe stems
// and display labels.
package textutil
