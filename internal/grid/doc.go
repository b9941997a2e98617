// Package grid expands a corner set and a temperature set into the ordered
// list of runs of a batch, and optionally narrows it with a filter
// expression.
package grid
