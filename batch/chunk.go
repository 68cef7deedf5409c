package batch

import "context"

// runChunk accumulates at most chunkSize output items, writing them in a
// single call once the buffer is full or the reader is exhausted, and
// reports whether the reader is now exhausted plus any fatal (budget-
// exhausting) failure.
//
// Accounting:
//   - a read failure increments ReadSkipCount by one;
//   - a process failure increments ProcessSkipCount by one, and the item
//     also counts toward ReadCount (it was read, just not written);
//   - a filtered item counts toward neither ReadCount nor any skip counter;
//   - a buffered item counts toward ReadCount, and later toward WriteCount
//     (on a successful flush) or WriteSkipCount (on a tolerated write
//     failure, which consumes the whole flushed chunk length from the
//     budget, per spec);
//   - whenever the running sum of the three skip counters exceeds the skip
//     limit, the triggering failure is fatal: the step terminates, and the
//     corresponding *ErrorCount is incremented by exactly one.
func (s *Step[I, O]) runChunk(ctx context.Context, exec *executionState) (exhausted bool, fatal error) {
	buf := make([]O, 0, s.chunkSize)

	for len(buf) < s.chunkSize {
		item, done, err := s.reader.Read(ctx)
		if err != nil {
			exec.readSkipCount++
			tolerated := exec.totalSkips() <= s.skipLimit
			s.notify(FailureRead, err, tolerated, 1)
			if !tolerated {
				exec.readErrorCount++
				return false, &ReaderError{Cause: err}
			}
			continue
		}
		if done {
			exhausted = true
			break
		}

		out, filtered, err := s.processor.Process(ctx, item)
		if err != nil {
			exec.processSkipCount++
			exec.readCount++
			tolerated := exec.totalSkips() <= s.skipLimit
			s.notify(FailureProcess, err, tolerated, 1)
			if !tolerated {
				return false, &ProcessorError{Cause: err}
			}
			continue
		}
		if filtered {
			continue
		}

		exec.readCount++
		buf = append(buf, out)
	}

	if len(buf) > 0 {
		if err := s.writer.Write(ctx, buf); err != nil {
			n := len(buf)
			exec.writeSkipCount += n
			tolerated := exec.totalSkips() <= s.skipLimit
			s.notify(FailureWrite, err, tolerated, n)
			if !tolerated {
				exec.writeErrorCount++
				return exhausted, &WriterError{Cause: err}
			}
			return exhausted, nil
		}
		exec.writeCount += len(buf)
	}

	return exhausted, nil
}
