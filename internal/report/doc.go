// Package report renders detector output and evaluation results.
//
// Detections are written one line per match in the comma separated form
// read back by labels.ReadDetections. Evaluations can be written as plain
// text for the terminal or as a Markdown document.
package report
