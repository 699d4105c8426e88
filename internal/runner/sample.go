package runner

import "fmt"

// maxSamples bounds the snapshots planned for one run.
const maxSamples = 1_000_000

// SampleBlocks returns the blocks to snapshot between from and to, inclusive,
// every step blocks. The last block is always to, even when the range is not
// a multiple of step.
func SampleBlocks(from, to, step uint64) ([]uint64, error) {
	if step == 0 {
		return nil, fmt.Errorf("step must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	if (to-from)/step >= maxSamples {
		return nil, fmt.Errorf("range %d-%d with step %d exceeds %d snapshots", from, to, step, maxSamples)
	}

	blocks := make([]uint64, 0, (to-from)/step+2)
	block := from
	for {
		blocks = append(blocks, block)
		if to-block < step {
			break
		}
		block += step
	}
	if blocks[len(blocks)-1] != to {
		blocks = append(blocks, to)
	}

	return blocks, nil
}
