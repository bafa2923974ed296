package tensor

import (
	"fmt"
)

// Reshape nests flat content into shape in row-major order: the first
// dimension is outermost. Leaves are float64, every other level is []any.
// A rank-0 shape yields the single content value.
func Reshape(shape []int, content []float64) (any, error) {
	n, err := elementCount(shape)
	if err != nil {
		return nil, err
	}
	if n != len(content) {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, got %d", ErrShapeMismatch, shape, n, len(content))
	}
	if len(shape) == 0 {
		return content[0], nil
	}
	nested, _ := nest(shape, content)
	return nested, nil
}

// nest builds one level and returns the unconsumed content.
func nest(shape []int, content []float64) (any, []float64) {
	if len(shape) == 0 {
		return content[0], content[1:]
	}
	level := make([]any, shape[0])
	for i := range level {
		level[i], content = nest(shape[1:], content)
	}
	return level, content
}

// Flatten is the inverse of Reshape. The shape is read along the first
// element of every level and all siblings must agree with it.
func Flatten(nested any) ([]int, []float64, error) {
	shape := shapeOf(nested)
	var content []float64
	if err := flatten(nested, shape, &content); err != nil {
		return nil, nil, err
	}
	return shape, content, nil
}

func shapeOf(nested any) []int {
	shape := []int{}
	for {
		level, ok := nested.([]any)
		if !ok {
			return shape
		}
		shape = append(shape, len(level))
		if len(level) == 0 {
			return shape
		}
		nested = level[0]
	}
}

func flatten(nested any, shape []int, out *[]float64) error {
	if len(shape) == 0 {
		f, ok := nested.(float64)
		if !ok {
			return fmt.Errorf("%w: expected number, got %T", ErrShapeMismatch, nested)
		}
		*out = append(*out, f)
		return nil
	}
	level, ok := nested.([]any)
	if !ok || len(level) != shape[0] {
		return fmt.Errorf("%w: ragged nesting, expected %d items", ErrShapeMismatch, shape[0])
	}
	for _, item := range level {
		if err := flatten(item, shape[1:], out); err != nil {
			return err
		}
	}
	return nil
}
