package stream

import (
	"context"
	"math/rand"
	"slices"
	"testing"
	"time"
)

var localRand = rand.New(rand.NewSource(time.Now().UnixNano()))

func isNonZero(n int) bool {
	return n != 0
}

func TestStream(t *testing.T) {
	data := []int{0, 2, 4, 6, 8}
	ctx := context.Background()
	myStream := Slice(ctx, data)
	result := Collect(ctx,
		Filter(ctx, isNonZero,
			myStream))

	if !slices.Equal([]int{2, 4, 6, 8}, result) {
		t.Errorf("Expected [2, 4, 6, 8], got %v", result)
	}
}

func TestStreamEmpty(t *testing.T) {
	ctx := context.Background()
	result := Collect(ctx, Filter(ctx, isNonZero, Slice(ctx, []int{})))
	if result == nil || len(result) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", result)
	}
}

func TestSliceCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := Slice(ctx, []int{1, 2, 3})
	time.Sleep(10 * time.Millisecond)
	n := 0
	for range s {
		n++
	}
	if n > 1 {
		t.Errorf("cancelled slice sent %d elements", n)
	}
}

func myOrdering(a, b int) int {
	return a - b
}

func TestRingSortNilCmpPassesThrough(t *testing.T) {
	data := []int{3, 1, 2}
	ctx := context.Background()
	result := Collect(ctx, RingSort(ctx, 5, nil, Slice(ctx, data)))
	if !slices.Equal(data, result) {
		t.Errorf("Expected %v, got %v", data, result)
	}
}

func TestRingSorting(t *testing.T) {
	cases := []struct {
		name     string
		data     []int
		expected []int
		size     int
	}{
		{
			name:     "Does not unsort",
			data:     []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			expected: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			size:     5,
		},
		{
			name:     "Sorts below size",
			data:     []int{3, 2, 1},
			expected: []int{1, 2, 3},
			size:     5,
		},
		{
			name:     "Sorts completely at size",
			data:     []int{4, 3, 2, 1, 0},
			expected: []int{0, 1, 2, 3, 4},
			size:     5,
		},
		{
			name:     "Sorts completely at size actually almost random",
			data:     []int{4, 2, 0, 3, 1},
			expected: []int{0, 1, 2, 3, 4},
			size:     5,
		},
		{
			name:     "Sorts best effort beyond size",
			data:     []int{4, 2, 0, 3, 1},
			expected: []int{0, 2, 1, 3, 4},
			size:     3,
		},
		{
			name:     "Sorts slightly shuffled fix times",
			data:     []int{0, 1, 3, 2, 5, 4, 6, 8, 7, 9, 10, 12, 11, 14, 13, 16, 15, 18, 20, 17, 19},
			expected: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			size:     5,
		},
		{
			name:     "Sorts unintuitively but as expected",
			data:     []int{20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
			expected: []int{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 17, 18, 19, 20},
			size:     5,
		},
		{
			name:     "Sorts large data",
			data:     genIntsShuffled(100_00),
			expected: genInts(100_00),
			size:     100_000,
		},
		{
			name:     "Sorts partially shuffled data",
			data:     append(genInts(5), append(genIntsShuffledOffset(5, 5), genIntsOffset(5, 10)...)...),
			expected: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
			size:     5,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(tt *testing.T) {
			ctx := context.Background()
			s := Slice(ctx, c.data)
			b := RingSort(ctx, c.size, myOrdering, s)
			result := Collect(ctx, b)
			if !slices.Equal(c.expected, result) {
				tt.Errorf("Expected/Got\n%v\n%v", c.expected, result)
			}
		})
	}
}

func TestTickMeter(t *testing.T) {
	m := NewTickMeter(time.Hour)
	defer m.Stop()
	now := time.Now()
	m.Mark(now, []byte("one"))
	m.Mark(now, []byte("two"))
	m.Mark(now, []byte("three"))
	if v := m.Count(); v != 3 {
		t.Fatalf("have %d want %d", v, 3)
	}
	m.AddSource("ibex-field-7")
	m.AddSource("ibex-field-7")
	if len(m.sources) != 1 {
		t.Errorf("duplicate source recorded: %v", m.sources)
	}
}

func genInts(n int) []int {
	data := make([]int, n)
	for i := 0; i < n; i++ {
		data[i] = i
	}
	return data
}

func genIntsOffset(n, offset int) []int {
	data := make([]int, n)
	for i := 0; i < n; i++ {
		data[i] = i + offset
	}
	return data
}

func shuffleInts(data []int) {
	r := localRand.Int()
	for i := len(data) - 1; i > 0; i-- {
		j := r % (i + 1)
		data[i], data[j] = data[j], data[i]
	}
}

func genIntsShuffled(n int) []int {
	data := genInts(n)
	shuffleInts(data)
	return data
}

func genIntsShuffledOffset(n, offset int) []int {
	data := genIntsOffset(n, offset)
	shuffleInts(data)
	return data
}
