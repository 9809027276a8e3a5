package chart

// AllAccounts is the tree view's name for the invisible root above the root accounts.
const AllAccounts = "All Accounts"

// TreeNode is one row returned to the tree view when a node is expanded.
type TreeNode struct {
	Value      string `json:"value"`
	Expandable bool   `json:"expandable"`
	Parent     string `json:"parent_account"`
}

// Children returns the direct children of the node whose Value is parent. An empty
// parent or AllAccounts yields the root accounts. Unknown or leaf parents yield nothing.
func Children(tree *Node, parent string) []TreeNode {
	if parent == AllAccounts {
		parent = ""
	}

	node := tree
	if parent != "" {
		node = tree.Find(func(n *Node) bool {
			return n.IsGroup() && n.Value() == parent
		})
		if node == nil {
			return []TreeNode{}
		}
	}

	out := make([]TreeNode, 0, len(node.Children))
	for _, c := range node.Children {
		out = append(out, TreeNode{
			Value:      c.Value(),
			Expandable: c.IsGroup(),
			Parent:     parent,
		})
	}
	return out
}
