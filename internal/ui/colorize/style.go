package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// MacroDark is the preview style: macro names stand out, punctuation stays quiet.
var MacroDark = styles.Register(chroma.MustNewStyle("macro-dark", chroma.StyleEntries{
	chroma.Text:           "#D4D4D4",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#6A9955",
	chroma.CommentPreproc: "#C586C0", // #define, #undef

	chroma.Keyword:     "#569CD6",
	chroma.KeywordType: "#4EC9B0",
	chroma.Name:        "#9CDCFE", // macro and register names
	chroma.NameBuiltin: "#4EC9B0",

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",

	chroma.Operator:    "#D4D4D4",
	chroma.Punctuation: "#808080",

	chroma.String: "#EACD53",
}))
