package pb

import (
	"fmt"
	"time"

	"tetrisengine/tetris"

	"google.golang.org/protobuf/types/known/structpb"
)

// ActRequest builds the Struct sent to Act.
func ActRequest(gameID string, a tetris.Action) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		GameIDKey: structpb.NewStringValue(gameID),
		ActionKey: structpb.NewStringValue(string(a)),
	}}
}

// ParseActRequest extracts and validates the game ID and action of an Act
// request.
func ParseActRequest(s *structpb.Struct) (string, tetris.Action, error) {
	id := s.GetFields()[GameIDKey].GetStringValue()
	if id == "" {
		return "", "", fmt.Errorf("missing %s", GameIDKey)
	}
	a, err := tetris.ParseAction(s.GetFields()[ActionKey].GetStringValue())
	if err != nil {
		return "", "", err
	}
	return id, a, nil
}

// FromSnapshot encodes a snapshot. Cells are [x, y] pairs and stack blocks
// are [x, y, shape] triples.
func FromSnapshot(s tetris.Snapshot) (*structpb.Struct, error) {
	stack := make([]any, 0, len(s.Stack))
	for _, b := range s.Stack {
		stack = append(stack, []any{b.X, b.Y, string(b.Shape)})
	}
	st, err := structpb.NewStruct(map[string]any{
		"shape":       string(s.Shape),
		"piece":       cells(s.Piece),
		"ghost":       cells(s.Ghost),
		"stack":       stack,
		"next":        string(s.Next),
		"score":       s.Score,
		"lines":       s.Lines,
		"level":       s.Level,
		"state":       s.State.String(),
		"interval_ms": s.Interval.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return st, nil
}

func cells(cs []tetris.Cell) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, []any{c.X, c.Y})
	}
	return out
}

// ToSnapshot decodes a snapshot encoded by FromSnapshot.
func ToSnapshot(st *structpb.Struct) (tetris.Snapshot, error) {
	f := st.GetFields()
	state, err := tetris.ParseState(f["state"].GetStringValue())
	if err != nil {
		return tetris.Snapshot{}, err
	}
	piece, err := toCells(f["piece"])
	if err != nil {
		return tetris.Snapshot{}, fmt.Errorf("piece: %w", err)
	}
	ghost, err := toCells(f["ghost"])
	if err != nil {
		return tetris.Snapshot{}, fmt.Errorf("ghost: %w", err)
	}
	var stack []tetris.Block
	for _, v := range f["stack"].GetListValue().GetValues() {
		b := v.GetListValue().GetValues()
		if len(b) != 3 {
			return tetris.Snapshot{}, fmt.Errorf("stack: malformed block %v", v)
		}
		stack = append(stack, tetris.Block{
			Cell:  tetris.Cell{X: int(b[0].GetNumberValue()), Y: int(b[1].GetNumberValue())},
			Shape: tetris.Shape(b[2].GetStringValue()),
		})
	}
	return tetris.Snapshot{
		Shape:    tetris.Shape(f["shape"].GetStringValue()),
		Piece:    piece,
		Ghost:    ghost,
		Stack:    stack,
		Next:     tetris.Shape(f["next"].GetStringValue()),
		Score:    int(f["score"].GetNumberValue()),
		Lines:    int(f["lines"].GetNumberValue()),
		Level:    int(f["level"].GetNumberValue()),
		State:    state,
		Interval: time.Duration(f["interval_ms"].GetNumberValue()) * time.Millisecond,
	}, nil
}

func toCells(v *structpb.Value) ([]tetris.Cell, error) {
	var out []tetris.Cell
	for _, c := range v.GetListValue().GetValues() {
		xy := c.GetListValue().GetValues()
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed cell %v", c)
		}
		out = append(out, tetris.Cell{X: int(xy[0].GetNumberValue()), Y: int(xy[1].GetNumberValue())})
	}
	return out, nil
}
