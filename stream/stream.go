// Package stream has the channel combinators the fix pipeline is
// plumbed with.
package stream

import (
	"context"
	"slices"
)

// Slice, et al., taken from:
// https://betterprogramming.pub/writing-a-stream-api-in-go-afbc3c4350e2

func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

func Filter[T any](ctx context.Context, predicate func(T) bool, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for element := range in {
			if predicate(element) {
				select {
				case <-ctx.Done():
					return
				case out <- element:
				}
			}
		}
	}()
	return out
}

func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
			return out
		default:
			out = append(out, element)
		}
	}
	return out
}

// RingSort reorders a nearly-sorted stream with a sliding window of
// the given size. Elements leave the window smallest first, so any
// element displaced by fewer than size positions comes out in order.
// Equal elements keep their arrival order. A nil cmp or a window
// under 2 passes elements straight through.
func RingSort[T any](ctx context.Context, size int, cmp func(a, b T) int, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		if cmp == nil || size < 2 {
			for element := range in {
				select {
				case <-ctx.Done():
					return
				case out <- element:
				}
			}
			return
		}
		upperBound := func(a, b T) int {
			if cmp(a, b) <= 0 {
				return -1
			}
			return 1
		}
		window := make([]T, 0, size)
		for element := range in {
			i, _ := slices.BinarySearchFunc(window, element, upperBound)
			window = slices.Insert(window, i, element)
			if len(window) == size {
				select {
				case <-ctx.Done():
					return
				case out <- window[0]:
				}
				window = window[1:]
			}
		}
		for _, element := range window {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}
