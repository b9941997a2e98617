// Package batch drives one cross-corner batch: it loads a template, plans the
// grid of runs, renders every deck and invokes the simulator once per run.
package batch
