/*
Copyright © 2026 the inpoly authors.
This file is part of inpoly.

inpoly is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

inpoly is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with inpoly.  If not, see <http://www.gnu.org/licenses/>.
*/

package inpoly

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestDispatchCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100, chunkSize, 2*chunkSize + 3} {
		for _, nprocs := range []int{0, 1, 2, 3, 4, 8, 200} {
			t.Run(fmt.Sprintf("n=%d_nprocs=%d", n, nprocs), func(t *testing.T) {
				count := make([]int, n)
				err := dispatch(context.Background(), n, nprocs, func(lo, hi int) {
					if hi-lo > chunkSize {
						panic(fmt.Errorf("chunk [%d, %d) is too large", lo, hi))
					}
					for i := lo; i < hi; i++ {
						count[i]++
					}
				})
				if err != nil {
					t.Fatal(err)
				}
				for i, c := range count {
					if c != 1 {
						t.Fatalf("index %d visited %d times", i, c)
					}
				}
			})
		}
	}
}

func TestDispatchPanic(t *testing.T) {
	err := dispatch(context.Background(), 1000, 4, func(lo, hi int) {
		if lo == 0 {
			panic("out of memory")
		}
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "worker failed") || !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDispatchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := dispatch(ctx, 3*chunkSize, 1, func(lo, hi int) {
		calls++
		cancel()
	})
	if err != context.Canceled {
		t.Errorf("have error %v, want %v", err, context.Canceled)
	}
	if calls != 1 {
		t.Errorf("have %d calls, want 1", calls)
	}
}
