package mesh

// PartitionMap splits a linear index space of blocks into ParallelDegree
// near-equal buckets, one per partition/task list.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // begin and end (exclusive) index of each bucket
}

func NewPartitionMap(parallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	for n := 0; n < parallelDegree; n++ {
		pm.Partitions[n] = pm.split1D(n)
	}
	return
}

// split1D computes the index range of bucket bn. The remainder cells are
// spread over the leading buckets so bucket sizes differ by at most one.
func (pm *PartitionMap) split1D(bn int) (r [2]int) {
	var (
		size = pm.MaxIndex / pm.ParallelDegree
		rem  = pm.MaxIndex % pm.ParallelDegree
	)
	lo := bn * size
	if bn < rem {
		lo += bn
	} else {
		lo += rem
	}
	hi := lo + size
	if bn < rem {
		hi++
	}
	r = [2]int{lo, hi}
	return
}

func (pm *PartitionMap) GetBucketRange(bn int) (min, max int) {
	min, max = pm.Partitions[bn][0], pm.Partitions[bn][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (size int) {
	size = pm.Partitions[bn][1] - pm.Partitions[bn][0]
	return
}
