package nearby

import (
	"context"
	"sync"

	"github.com/andrew-torda/pdbnear/pdb/cmmn"
)

// blockSize is the number of atoms handed to a worker at a time. It is
// also how often the context gets looked at.
const blockSize = 4096

// SelectCtx gives exactly the same answer as Select, residues in the
// same order, but splits the atoms into blocks which are scanned by
// nWorker goroutines. It stops early and returns ctx.Err() if ctx is
// cancelled, which is what a new click does to the previous one.
// With nWorker < 2, or fewer atoms than two blocks, the scan is
// sequential, but still stops between blocks.
func SelectCtx(ctx context.Context, atoms []cmmn.Atom, ref cmmn.Xyz,
	radius float64, nWorker int) (Selection, error) {
	if err := checkArgs(ref, radius); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nblock := (len(atoms) + blockSize - 1) / blockSize
	if nWorker < 2 || nblock < 2 {
		return selectSeq(ctx, atoms, ref, radius)
	}
	if nWorker > nblock {
		nWorker = nblock
	}

	// Each block gets its own list, in scan order. Putting them together
	// in block order keeps the first-seen order of a sequential scan.
	parts := make([]Selection, nblock)
	cblock := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < nWorker; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range cblock {
				start := b * blockSize
				end := min(start+blockSize, len(atoms))
				parts[b] = scan(atoms[start:end], ref, radius,
					make(map[cmmn.ResKey]struct{}), nil)
			}
		}()
	}

	var err error
feed:
	for b := 0; b < nblock; b++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case cblock <- b:
		}
	}
	close(cblock)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return merge(parts), nil
}

// selectSeq is Select, but looks at ctx between blocks.
func selectSeq(ctx context.Context, atoms []cmmn.Atom, ref cmmn.Xyz,
	radius float64) (Selection, error) {
	seen := make(map[cmmn.ResKey]struct{})
	sel := Selection{}
	for start := 0; start < len(atoms); start += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+blockSize, len(atoms))
		sel = scan(atoms[start:end], ref, radius, seen, sel)
	}
	return sel, nil
}

// merge joins per-block selections, dropping residues which were
// already seen in an earlier block.
func merge(parts []Selection) Selection {
	seen := make(map[cmmn.ResKey]struct{})
	sel := Selection{}
	for _, p := range parts {
		for _, k := range p {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			sel = append(sel, k)
		}
	}
	return sel
}
