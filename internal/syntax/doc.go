// Package syntax turns Handlebars template text into a queryable tree.
//
// The lexer is a participle stateful lexer with a content state and a
// mustache state. It never fails: a character that cannot start a token
// inside a mustache becomes an Invalid token, which is how a half-typed
// closing delimiter ("{{foo}") shows up.
//
// The parser is error tolerant and always produces a total tree: every
// byte of the input is covered by exactly one leaf. Blocks are matched by
// name with a nesting stack, and the pairing between an open and a close
// stache is recomputed from the tree on demand (Node.PairedClose).
//
// A View is the tree of one document revision. Syncer keeps a view in step
// with a document and reparses only when the revision moved:
//
//	sync := syntax.NewSyncer(buf)
//	view := sync.Resync()
//	leaf := view.NodeAt(offset - 1)
//	open := syntax.FindEnclosing(leaf, true, syntax.OfKind(syntax.OpenBlockStache))
package syntax
