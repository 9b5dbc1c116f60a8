// Package typed decides, per keystroke, how a Handlebars template editor
// reacts to typed braces.
//
// A Handler runs in two phases around the host's own commit of a typed
// character:
//
//	BeforeCommit  Interceptor: "{" after "{" is inserted directly and the
//	              keystroke is consumed, so the host's "{" auto-pairing
//	              never runs.
//	(host commits the character)
//	AfterCommit   DelimiterCompleter: a lone "}" closing a stache becomes "}}".
//	              CloseTagSynthesizer: a completed "{{#name}}" or "{{^name}}"
//	              gets its "{{/name}}".
//	              ReindentTrigger: a completed "{{/name}}", "{{^}}" or
//	              "{{else}}" reindents its line.
//
// Every decision reads the syntax tree through a fresh resync, and every
// failed precondition is a silent no-op.
package typed
