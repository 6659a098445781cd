// Package board implements move legality and stone-capture resolution.
// Everything here is a pure function over a board; no I/O and no locking.
package board

import (
	"github.com/mcoot/goban-go/internal/model"
)

// Neighbor scan order: down, right, up, left. The order does not change
// which stones are captured, but it fixes the order captured coordinates
// are reported in, which is part of the wire contract.
var directions = [4]model.Position{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}

// ApplyMove places a stone of the given color and resolves captures.
// On success the board is mutated in place and the removed opponent
// stones are returned in scan order. On error the board is untouched.
//
// Self-capture is not checked: a move that leaves the mover's own group
// without liberties is accepted and the group stays on the board.
// There is no ko rule; immediate recapture of the same shape is legal.
func ApplyMove(b *model.Board, pos model.Position, color model.Color) ([]model.Position, error) {
	if !color.Valid() {
		return nil, model.ErrInvalidColor
	}
	if !b.InBounds(pos) {
		return nil, model.ErrOutOfBounds
	}
	if !b.IsEmpty(pos) {
		return nil, model.ErrOccupiedCell
	}

	b.Set(pos, color.Cell())

	opponent := color.Opponent().Cell()
	var captured []model.Position
	seen := make(map[model.Position]bool)

	for _, d := range directions {
		n := model.Position{X: pos.X + d.X, Y: pos.Y + d.Y}
		if !b.InBounds(n) || b.Get(n) != opponent || seen[n] {
			continue
		}
		group := Group(b, n)
		for _, p := range group {
			seen[p] = true
		}
		if HasLiberty(b, group) {
			continue
		}
		for _, p := range group {
			b.Set(p, model.CellEmpty)
		}
		captured = append(captured, group...)
	}

	return captured, nil
}

// Group returns the maximal set of same-colored stones 4-connected to the
// stone at pos, in deterministic flood-fill order. Returns nil if the
// position is empty or out of bounds.
func Group(b *model.Board, pos model.Position) []model.Position {
	if !b.InBounds(pos) {
		return nil
	}
	state := b.Get(pos)
	if state == model.CellEmpty {
		return nil
	}

	var group []model.Position
	visited := make(map[model.Position]bool)

	var fill func(p model.Position)
	fill = func(p model.Position) {
		if visited[p] {
			return
		}
		visited[p] = true
		if !b.InBounds(p) || b.Get(p) != state {
			return
		}
		group = append(group, p)
		for _, d := range directions {
			fill(model.Position{X: p.X + d.X, Y: p.Y + d.Y})
		}
	}
	fill(pos)

	return group
}

// HasLiberty returns true if any stone in the group has a 4-connected
// empty neighbor
func HasLiberty(b *model.Board, group []model.Position) bool {
	for _, stone := range group {
		for _, d := range directions {
			n := model.Position{X: stone.X + d.X, Y: stone.Y + d.Y}
			if b.InBounds(n) && b.IsEmpty(n) {
				return true
			}
		}
	}
	return false
}
