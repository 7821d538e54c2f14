package match

import (
	"sync"

	"vaultdedup/internal/hash"
	"vaultdedup/internal/models"
)

// contentFingerprints hashes every record's content across the worker
// pool. Results land in an index-addressed slice so parallelism never
// reorders them.
func (g *Grouper) contentFingerprints(files []*models.FileRecord) []hash.ContentFingerprint {
	fps := make([]hash.ContentFingerprint, len(files))
	g.forEachIndex(len(files), func(i int) {
		fps[i] = hash.HashContent(files[i].Content)
	})
	return fps
}

// perceptualFingerprints hashes the records at imageIdx; the result is
// aligned to imageIdx, with nil for undecodable images.
func (g *Grouper) perceptualFingerprints(files []*models.FileRecord, imageIdx []int) []*hash.PerceptualFingerprint {
	fps := make([]*hash.PerceptualFingerprint, len(imageIdx))
	g.forEachIndex(len(imageIdx), func(i int) {
		fp, err := g.perceptual.HashImage(files[imageIdx[i]].Content)
		if err != nil {
			return // decode failure isolates to this file
		}
		fps[i] = fp
	})
	return fps
}

// forEachIndex runs fn(0..n-1) across the configured worker count.
func (g *Grouper) forEachIndex(n int, fn func(i int)) {
	workers := g.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
