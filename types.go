package vast

// Node types appearing in the output tree. The set is closed: anything the
// classifier does not recognize gets a synthetic "<kind>-<code>" label
// instead of one of these.
const (
	TypeProgram     = "program"
	TypeDir         = "dir"
	TypeFile        = "file"
	TypeModule      = "module"
	TypeModuleBlock = "module-block"
	TypeClass       = "class"
	TypeInterface   = "interface"
	TypeConstructor = "constructor"
	TypeMethod      = "method"
	TypeFunction    = "function"
	TypeText        = "text"
)

// TreeNode is a single node of the summary tree: a file, directory, or
// declaration. The tree is strict (no node is shared between parents), and
// dependency edges are plain path strings rather than node references.
type TreeNode struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Size     int         `json:"size,omitempty"`
	Deps     []string    `json:"deps,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Envelope wraps the summary tree with format metadata. The fields other
// than Tree are inert: consumers use them to recognize the document and to
// pick display colors, nothing more.
type Envelope struct {
	Format    string            `json:"format"`
	Version   string            `json:"version"`
	Source    string            `json:"source"`
	Colors    map[string]string `json:"colors,omitempty"`
	Timestamp string            `json:"timestamp"`
	Tree      *TreeNode         `json:"vast"`
}

// FormatName and FormatVersion identify the output document format.
const (
	FormatName    = "vast"
	FormatVersion = "1.0.0"
)

// DefaultColors is the advisory node-type color table written into the
// envelope unless overridden with WithColors.
var DefaultColors = map[string]string{
	TypeProgram:     "#616161",
	TypeDir:         "#9e9e9e",
	TypeFile:        "#90a4ae",
	TypeModule:      "#7e57c2",
	TypeModuleBlock: "#9575cd",
	TypeClass:       "#42a5f5",
	TypeInterface:   "#26a69a",
	TypeConstructor: "#ef5350",
	TypeMethod:      "#ec407a",
	TypeFunction:    "#ffa726",
	TypeText:        "#8d6e63",
}
