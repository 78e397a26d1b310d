package docs

import "embed"

// FS contains long-form Markdown docs bundled with the twiz binary.
//
//go:embed guide
var FS embed.FS

// SyntaxGuidePath is the path of the search syntax guide within FS.
const SyntaxGuidePath = "guide/syntax.md"
