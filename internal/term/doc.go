// Package term is a minimal terminal editor for Handlebars templates built
// on tcell. It forwards keystrokes to a session and redraws the document
// with a status line describing what the typed-character engine did.
//
// Keys: printable characters, Enter, Tab, Backspace, Delete, arrows,
// Home and End edit the document; Ctrl-Z undoes and Ctrl-Y redoes;
// Ctrl-S saves; Ctrl-Q or Escape quits.
package term
