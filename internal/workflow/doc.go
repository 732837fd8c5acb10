// Package workflow implements the interactive loop: search for a title,
// pick a result, pick a language, pick a backdrop, name the file, download.
//
// The loop is a state machine over a cursor value; each state has one
// handler that asks a question through a Prompter and returns the next
// cursor. Invalid answers are reported and the same menu is shown again.
// Search, listing and download failures are reported and never end the
// session. Only an exit command, the end of input or a cancelled context
// does.
//
// Console is the Prompter for plain terminals; package tui provides one
// backed by a Bubble Tea program.
package workflow
