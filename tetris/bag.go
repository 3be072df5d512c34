package tetris

import "math/rand/v2"

// Rand is the source of randomness for the bag. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Bag is the 7 piece randomizer: every run of 7 draws starting from an
// empty bag holds each tetromino exactly once.
// https://tetris.wiki/Random_Generator
type Bag struct {
	rand Rand
	bag  []Shape
}

// NewBag returns an empty bag. A nil r uses the process-wide source.
func NewBag(r Rand) *Bag {
	if r == nil {
		r = globalRand{}
	}
	return &Bag{rand: r}
}

// Next draws the next tetromino, refilling the bag when it's empty.
func (b *Bag) Next() Shape {
	b.fill()
	s := b.bag[len(b.bag)-1]
	b.bag = b.bag[:len(b.bag)-1]
	return s
}

// Peek returns the tetromino Next would return without drawing it.
func (b *Bag) Peek() Shape {
	b.fill()
	return b.bag[len(b.bag)-1]
}

// Len returns the number of tetrominoes left before the next refill.
func (b *Bag) Len() int { return len(b.bag) }

func (b *Bag) fill() {
	if len(b.bag) > 0 {
		return
	}
	b.bag = append(b.bag[:0], Shapes[:]...)
	// Fisher-Yates, walking down from the end of the bag.
	for idx := len(b.bag); idx >= 1; idx-- {
		j := b.rand.IntN(idx)
		b.bag[idx-1], b.bag[j] = b.bag[j], b.bag[idx-1]
	}
}
