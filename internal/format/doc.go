// Package format reindents Handlebars template lines from the syntax tree.
//
// A line is indented by one unit per block body that encloses its first
// token. Block open, close and else staches are direct children of their
// block rather than of its body, so they sit at the level of the block
// itself:
//
//	{{#if a}}
//	  {{#each b}}
//	    {{c}}
//	  {{else}}
//	    none
//	  {{/each}}
//	{{/if}}
package format
