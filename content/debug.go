package content

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	tp "github.com/xlab/treeprint"
)

// Dump renders a content tree for debugging.
func Dump(n *Node) string {
	p := tp.New()
	ppc(p, n)
	return p.String()
}

func ppc(p tp.Tree, node *Node) {
	if node == nil {
		return
	}
	if len(node.children) == 0 {
		p.AddNode(node.String())
		return
	}
	branch := p.AddBranch(node.String())
	for _, ch := range node.children {
		ppc(branch, ch)
	}
}
