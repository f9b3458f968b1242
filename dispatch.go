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
	"sync"
)

// chunkSize is the maximum number of points processed between
// checks for cancellation.
const chunkSize = 1 << 14

// dispatch calls f over the index range [0, n). The range is split into
// nprocs contiguous, non-overlapping blocks which are run concurrently,
// so f must only write to the indices it is given. If nprocs <= 1,
// f is run on the calling goroutine.
//
// Each block is processed in chunks of at most chunkSize indices and
// ctx is checked before each chunk. If ctx is cancelled, or if f panics
// in any block, dispatch waits for the remaining blocks to finish and
// returns a single error.
func dispatch(ctx context.Context, n, nprocs int, f func(lo, hi int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if nprocs <= 1 {
		return work(ctx, 0, n, f)
	}
	if nprocs > n {
		nprocs = n
	}
	size := (n + nprocs - 1) / nprocs
	nprocs = (n + size - 1) / size

	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		lo := p * size
		hi := lo + size
		if hi > n {
			hi = n
		}
		go func(p, lo, hi int) {
			defer wg.Done()
			errs[p] = work(ctx, lo, hi, f)
		}(p, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// work runs f over [lo, hi) in chunks, converting a panic into an error.
func work(ctx context.Context, lo, hi int, f func(lo, hi int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inpoly: classification worker failed on points [%d, %d): %v", lo, hi, r)
		}
	}()
	for i := lo; i < hi; i += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		j := i + chunkSize
		if j > hi {
			j = hi
		}
		f(i, j)
	}
	return nil
}
