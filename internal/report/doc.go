// Package report summarises a finished batch, as an aligned text table for
// the log and as an .xlsx workbook next to the results.
package report
