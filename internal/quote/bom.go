package quote

import "github.com/piwi3910/RailCraft/internal/model"

// bom accumulates material lines and the discrete pieces they are cut into.
type bom struct {
	lines  []model.BOMLine
	pieces []model.CutPiece
}

func (b *bom) startLine(label, code string) {
	b.lines = append(b.lines, model.BOMLine{Label: label, StockCode: code})
}

func (b *bom) current() *model.BOMLine {
	return &b.lines[len(b.lines)-1]
}

func (b *bom) add(piece model.CutPiece) {
	if piece.Length <= 0 {
		return
	}
	line := b.current()
	piece.StockCode = line.StockCode
	line.Length += piece.Length
	line.Quantity++
	b.pieces = append(b.pieces, piece)
}

func (b *bom) addSection(label string, length float64, section int) {
	b.add(model.CutPiece{Label: label, Length: length, Section: section, Post: -1})
}

func (b *bom) addPost(label string, length float64, post int) {
	b.add(model.CutPiece{Label: label, Length: length, Section: -1, Post: post})
}

// allowance adds extra length to the current line without adding a piece.
func (b *bom) allowance(mm float64) {
	if line := b.current(); line.Quantity > 0 && mm > 0 {
		line.Length += mm
	}
}
