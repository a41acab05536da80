/*
Package css parses CSS style sheets, property values, selectors, media
queries and @supports conditions. This package holds a small facade over
the parser package and a Printer that writes parsed style sheets back as
CSS text.

# Basics

Parsing occurs in two steps. First the scanner breaks up a stream of code
points into tokens such as identifiers, whitespace, numbers and strings.
The parser then groups the tokens into component values: tokens, simple
blocks and functions. Each construct is parsed from its component values
by its own grammar.

Values are parsed into chains of lexical units (package value). A unit has
a type, a numeric or string payload, links to its neighbours and, for
functions, a chain of parameters. Chains may be edited in place and are
serialized back to CSS with their String method.

Selectors, page selectors, media queries and conditions are parsed into
the trees of package ast.

# Style sheets

A style sheet is not returned as a tree. The parser reports what it reads
to a parser.DocumentHandler: each rule opens with a Start event, reports
its declarations with Property and closes with an End event. Errors go to
a parser.ErrorHandler and parsing resumes at the next declaration or rule,
so a handler only ever sees valid constructs.

The entry points parsing a single construct, such as ParsePropertyValue,
do not recover and return the first error instead. Errors are
*parser.Error values carrying a kind and the line and column where they
occurred.
*/
package css
