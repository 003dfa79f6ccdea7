package embedder

import (
	"context"
	"fmt"
)

// BatchProgress reports embedding progress to a caller-supplied channel.
type BatchProgress struct {
	BatchIndex      int
	TotalBatches    int
	ProcessedChunks int
	TotalChunks     int
}

// EmbedWithProgress splits texts into batches of batchSize, embeds them
// sequentially (the provider already serializes calls internally; batching
// here bounds request size and gives the caller incremental feedback), and
// reports progress on progressCh if non-nil.
func EmbedWithProgress(
	ctx context.Context,
	provider Provider,
	texts []string,
	role Role,
	batchSize int,
	progressCh chan<- BatchProgress,
) ([][]float32, error) {
	total := len(texts)
	if total == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = total
	}

	numBatches := (total + batchSize - 1) / batchSize
	results := make([][]float32, total)
	processed := 0

	for batch := 0; batch < numBatches; batch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := batch * batchSize
		end := min(start+batchSize, total)

		vectors, err := provider.Embed(ctx, texts[start:end], role)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d/%d: %w", batch+1, numBatches, err)
		}
		copy(results[start:end], vectors)

		processed += end - start
		if progressCh != nil {
			progressCh <- BatchProgress{
				BatchIndex:      batch + 1,
				TotalBatches:    numBatches,
				ProcessedChunks: processed,
				TotalChunks:     total,
			}
		}
	}

	return results, nil
}
