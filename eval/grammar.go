package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// directive is the participle grammar for '@' lines.
//
//nolint:govet // participle grammar tags are not standard struct tags
type directive struct {
	Import *importDir `"@" ( "import" @@`
	Let    *letDir    `      | "let" @@`
	Set    *setDir    `      | "set" @@`
	Emit   *emitDir   `      | "emit" @@ )`
}

//nolint:govet
type importDir struct {
	Path  string `@String`
	Alias string `( "as" @Ident )?`
}

//nolint:govet
type letDir struct {
	Name string `@Ident`
	Expr *expr  `"=" @@`
}

//nolint:govet
type setDir struct {
	KeyParts []string `@Ident ( "-" @Ident )*`
	Expr     *expr    `"=" @@`
}

func (d *setDir) Key() string {
	return strings.Join(d.KeyParts, "-")
}

//nolint:govet
type emitDir struct {
	Expr *expr `@@`
}

// Expressions: sum of products, with unit-suffixed number literals.

//nolint:govet
type expr struct {
	Left *term     `@@`
	Ops  []*opTerm `@@*`
}

//nolint:govet
type opTerm struct {
	Op   string `@( "+" | "-" )`
	Term *term  `@@`
}

//nolint:govet
type term struct {
	Left *factor     `@@`
	Ops  []*opFactor `@@*`
}

//nolint:govet
type opFactor struct {
	Op     string  `@( "*" | "/" )`
	Factor *factor `@@`
}

//nolint:govet
type factor struct {
	Number *numberLit `  @@`
	Str    *string    `| @String`
	Bool   *string    `| @( "true" | "false" )`
	None   bool       `| @"none"`
	Call   *callExpr  `| @@`
	Ref    *refExpr   `| @@`
	Paren  *expr      `| "(" @@ ")"`
}

//nolint:govet
type numberLit struct {
	Value float64 `@( Float | Int )`
	Unit  string  `@( "pt" | "mm" | "cm" | "in" )?`
}

//nolint:govet
type callExpr struct {
	Name string  `@"today"`
	Arg  *expr   `"(" @@? ")"`
}

//nolint:govet
type refExpr struct {
	Name  string `@Ident`
	Field string `( "." @Ident )?`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[@=+\-*/().]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var directiveParser = participle.MustBuild[directive](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// parseDirective parses one '@' line.
func parseDirective(line string) (*directive, error) {
	return directiveParser.ParseString("", line)
}

// isDirectiveLine tests whether a trimmed markup line is a directive.
func isDirectiveLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "@")
}
