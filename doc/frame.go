package doc

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/tyse/core/dimen"
)

// Point is a position within a frame, origin at the top-left corner.
type Point struct {
	X, Y dimen.DU
}

func (pt Point) String() string {
	return fmt.Sprintf("(%.2fpt,%.2fpt)", pts(pt.X), pts(pt.Y))
}

// Size is a width/height pair.
type Size struct {
	W, H dimen.DU
}

func (sz Size) String() string {
	return fmt.Sprintf("%.2fpt×%.2fpt", pts(sz.W), pts(sz.H))
}

func pts(du dimen.DU) float64 {
	return float64(du) / float64(dimen.PT)
}

// Item is one placeable piece of output.
type Item interface {
	memo.Fingerprinter
	fmt.Stringer
}

// TextItem is a shaped-enough text run: one line fragment in a single
// font/size, with its measured width.
type TextItem struct {
	Text   string
	Family string
	Size   dimen.DU
	Width  dimen.DU
}

func (it TextItem) String() string {
	return fmt.Sprintf("text %q [%s %.1fpt]", it.Text, it.Family, pts(it.Size))
}

// Fingerprint hashes the run's content.
func (it TextItem) Fingerprint() memo.Fingerprint {
	return memo.NewHasher().
		WriteString("text").
		WriteString(it.Text).
		WriteString(it.Family).
		WriteInt(int64(it.Size)).
		WriteInt(int64(it.Width)).
		Sum()
}

// RuleItem is a filled rectangle (thematic breaks, underlines).
type RuleItem struct {
	W, H dimen.DU
}

func (it RuleItem) String() string {
	return fmt.Sprintf("rule %.2fpt×%.2fpt", pts(it.W), pts(it.H))
}

// Fingerprint hashes the rule's geometry.
func (it RuleItem) Fingerprint() memo.Fingerprint {
	return memo.NewHasher().
		WriteString("rule").
		WriteInt(int64(it.W)).
		WriteInt(int64(it.H)).
		Sum()
}

// ImageItem references an image file to be embedded by the exporter.
type ImageItem struct {
	Target string
	Data   memo.Fingerprint // fingerprint of the image bytes
	W, H   dimen.DU
}

func (it ImageItem) String() string {
	return fmt.Sprintf("image %q %.2fpt×%.2fpt", it.Target, pts(it.W), pts(it.H))
}

// Fingerprint hashes reference and content identity of the image.
func (it ImageItem) Fingerprint() memo.Fingerprint {
	return memo.NewHasher().
		WriteString("image").
		WriteString(it.Target).
		WriteFingerprint(it.Data).
		WriteInt(int64(it.W)).
		WriteInt(int64(it.H)).
		Sum()
}

// Placeholder stands in for content that could not be resolved (missing
// image, unloadable font sample). It is visible output, not an error.
type Placeholder struct {
	Label string
	W, H  dimen.DU
}

func (it Placeholder) String() string {
	return fmt.Sprintf("placeholder %q %.2fpt×%.2fpt", it.Label, pts(it.W), pts(it.H))
}

// Fingerprint hashes the placeholder.
func (it Placeholder) Fingerprint() memo.Fingerprint {
	return memo.NewHasher().
		WriteString("placeholder").
		WriteString(it.Label).
		WriteInt(int64(it.W)).
		WriteInt(int64(it.H)).
		Sum()
}

// SubFrame nests a sealed frame as an item of another frame.
type SubFrame struct {
	Frame *Frame
}

func (it SubFrame) String() string {
	return fmt.Sprintf("frame %s", it.Frame.Size())
}

// Fingerprint delegates to the nested frame.
func (it SubFrame) Fingerprint() memo.Fingerprint {
	return it.Frame.Fingerprint()
}

// Placed is one item at an offset within its frame.
type Placed struct {
	At   Point
	Item Item
}

// Frame is a fixed-size canvas of placed items. A frame under construction
// accepts Push calls; Seal freezes it and computes its fingerprint.
type Frame struct {
	size   Size
	items  []Placed
	sealed bool
	fp     memo.Fingerprint
}

// NewFrame creates an open frame of the given size.
func NewFrame(size Size) *Frame {
	return &Frame{size: size}
}

// Size returns the frame's fixed size.
func (f *Frame) Size() Size {
	return f.size
}

// Items returns the placed items in placement order. Read-only.
func (f *Frame) Items() []Placed {
	return f.items
}

// Push places an item at the given offset. Push panics on sealed frames —
// sealing is the handover point to shared ownership.
func (f *Frame) Push(at Point, item Item) {
	if f.sealed {
		panic("press/doc: push onto sealed frame")
	}
	f.items = append(f.items, Placed{At: at, Item: item})
}

// Seal freezes the frame and computes its content fingerprint.
func (f *Frame) Seal() *Frame {
	if f.sealed {
		return f
	}
	h := memo.NewHasher()
	h.WriteInt(int64(f.size.W)).WriteInt(int64(f.size.H))
	for _, p := range f.items {
		h.WriteInt(int64(p.At.X)).WriteInt(int64(p.At.Y))
		h.WriteFingerprint(p.Item.Fingerprint())
	}
	f.fp = h.Sum()
	f.sealed = true
	tracer().Debugf("sealed frame %s, %d items, fingerprint %v", f.size, len(f.items), f.fp)
	return f
}

// Fingerprint identifies the sealed frame's content. Calling it on an open
// frame seals it.
func (f *Frame) Fingerprint() memo.Fingerprint {
	if !f.sealed {
		f.Seal()
	}
	return f.fp
}

// Document is the final output: one sealed frame per page, in page order.
type Document struct {
	Pages []*Frame
}

// Fingerprint identifies the whole document's content.
func (d *Document) Fingerprint() memo.Fingerprint {
	h := memo.NewHasher()
	for _, page := range d.Pages {
		h.WriteFingerprint(page.Fingerprint())
	}
	return h.Sum()
}

// Equal is value equality of documents via fingerprints.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Fingerprint() == other.Fingerprint()
}
