package utils

import (
	"runtime"
	"sync"
)

// PartitionMap splits the index range [0,MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.split(n)
	}
	return
}

// NewCPUPartitionMap partitions maxIndex over the available CPUs, never
// making more buckets than indices
func NewCPUPartitionMap(maxIndex int) *PartitionMap {
	np := runtime.NumCPU()
	if np > maxIndex {
		np = maxIndex
	}
	return NewPartitionMap(np, maxIndex)
}

// GetBucket returns the bucket holding index k and its range, bucketNum is -1
// when k is out of range
func (pm *PartitionMap) GetBucket(k int) (bucketNum, min, max int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1, 0, 0
	}
	// Initial guess, off by at most one
	bucketNum = pm.ParallelDegree * k / pm.MaxIndex
	for {
		min, max = pm.GetBucketRange(bucketNum)
		switch {
		case k < min:
			bucketNum--
		case k >= max:
			bucketNum++
		default:
			return
		}
	}
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) int {
	k1, k2 := pm.GetBucketRange(bn)
	return k2 - k1
}

func (pm *PartitionMap) split(threadNum int) (bucket [2]int) {
	var (
		Npart            = pm.MaxIndex / pm.ParallelDegree
		remainder        = pm.MaxIndex % pm.ParallelDegree
		startAdd, endAdd int
	)
	// spread the remainder over the first buckets
	if threadNum < remainder {
		startAdd, endAdd = threadNum, 1
	} else {
		startAdd = remainder
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// Run calls fn once per bucket, each in its own goroutine, and waits for all of them
func (pm *PartitionMap) Run(fn func(bn, kMin, kMax int)) {
	var wg sync.WaitGroup
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		wg.Add(1)
		go func(bn int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(bn)
			fn(bn, kMin, kMax)
		}(bn)
	}
	wg.Wait()
}
