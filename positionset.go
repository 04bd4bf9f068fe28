package sheetcore

import "github.com/javajack/sheetcore/store"

// positionSet is an insertion-ordered set of positions.
type positionSet struct {
	seen  map[store.Position]struct{}
	order []store.Position
}

func newPositionSet() *positionSet {
	return &positionSet{seen: map[store.Position]struct{}{}}
}

func (p *positionSet) add(pos store.Position) {
	if _, ok := p.seen[pos]; ok {
		return
	}
	p.seen[pos] = struct{}{}
	p.order = append(p.order, pos)
}

func (p *positionSet) len() int { return len(p.order) }

func (p *positionSet) items() []store.Position { return p.order }

func (p *positionSet) reset() {
	p.seen = map[store.Position]struct{}{}
	p.order = nil
}
