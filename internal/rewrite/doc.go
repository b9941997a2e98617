// Package rewrite turns a netlist template into the deck for a single corner
// run. It works line by line and only touches the statements it recognises:
//
//   - corner sentinel tokens on .lib/.include/.inc/.model/.param lines,
//   - the .temp directive (replaced, or inserted before .control),
//   - the first write, wrdata and "print ... >" statements, whose target
//     paths are pointed into the output layout,
//   - whole-token references to the template's base name.
//
// Every other byte of the template, including line endings, comments and
// signal lists, is copied through unchanged.
package rewrite
