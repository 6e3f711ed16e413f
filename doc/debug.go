package doc

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// Dump renders a document's frame structure for debugging.
func Dump(d *Document) string {
	p := tp.New()
	for i, page := range d.Pages {
		branch := p.AddBranch(fmt.Sprintf("page %d %s", i+1, page.Size()))
		ppf(branch, page)
	}
	return p.String()
}

func ppf(p tp.Tree, f *Frame) {
	for _, placed := range f.Items() {
		if sub, ok := placed.Item.(SubFrame); ok {
			branch := p.AddBranch(fmt.Sprintf("%s frame %s", placed.At, sub.Frame.Size()))
			ppf(branch, sub.Frame)
			continue
		}
		p.AddNode(fmt.Sprintf("%s %s", placed.At, placed.Item))
	}
}
