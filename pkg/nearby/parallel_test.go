package nearby_test

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	. "github.com/andrew-torda/pdbnear/pkg/nearby"
)

// The parallel scan has to give the same residues in the same order as
// the sequential one, whatever the number of workers.
func TestSelectCtxSameAsSelect(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	ctx := context.Background()
	for _, n := range []int{0, 1, 100, 4096, 4097, 20000} {
		atoms := randAtoms(rnd, n)
		ref := cmmn.Xyz{X: 1, Y: -2, Z: 0.5}
		want, err := Select(atoms, ref, 6)
		if err != nil {
			t.Fatal(err)
		}
		for _, nw := range []int{0, 1, 2, 3, 8, 64} {
			got, err := SelectCtx(ctx, atoms, ref, 6, nw)
			if err != nil {
				t.Fatalf("n=%d nw=%d: %v", n, nw, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("n=%d nw=%d: parallel and sequential differ\n%v\n%v",
					n, nw, got, want)
			}
		}
	}
}

func TestSelectCtxCancelled(t *testing.T) {
	atoms := randAtoms(rand.New(rand.NewSource(2)), 10000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, nw := range []int{1, 4} {
		sel, err := SelectCtx(ctx, atoms, cmmn.Xyz{}, 3, nw)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("nw=%d: wanted context.Canceled, got %v", nw, err)
		}
		if sel != nil {
			t.Errorf("nw=%d: cancelled scan returned %v", nw, sel)
		}
	}
}

// Many goroutines reading the same atoms must all get the same answer.
func TestSelectConcurrent(t *testing.T) {
	atoms := randAtoms(rand.New(rand.NewSource(5)), 3000)
	want, _ := Select(atoms, cmmn.Xyz{}, 8)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Select(atoms, cmmn.Xyz{}, 8)
			if err != nil || !reflect.DeepEqual(got, want) {
				errs <- "concurrent Select differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
