// Package aggregate implements spec.md §4.C: one forward pass over the
// results stream, bucketing rows by (operation, size group) and
// summarising each bucket via internal/stats. It never allocates
// proportional to the input beyond the per-bucket sample vectors needed
// for percentile computation, and it cannot fail the run — malformed
// lines are dropped silently, per spec.md §7's input-malformed-line.
package aggregate

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/WarriorWiras/Embedded-System/internal/logx"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// bucketKey identifies one (operation, size group) bucket.
type bucketKey struct {
	op    Operation
	group SizeGroup
}

// Bucket holds the summarised aggregates for one (operation, size group)
// cell, per spec.md §3.
type Bucket struct {
	// ElapsedMs is populated for program/erase buckets.
	ElapsedMs stats.Stats
	// MBps and LatencyMs are populated for read buckets; ReadMeanUs is the
	// arithmetic mean of elapsed microseconds. Neither the matcher nor the
	// report writer reads ReadMeanUs.
	MBps       stats.Stats
	LatencyMs  stats.Stats
	ReadMeanUs stats.Option[float64]
}

// N reports the sample count backing this bucket, regardless of which
// operation it belongs to (read buckets fill LatencyMs, program/erase
// buckets fill ElapsedMs; the other one stays at N == 0).
func (b Bucket) N() int {
	if b.LatencyMs.N > 0 {
		return b.LatencyMs.N
	}
	return b.ElapsedMs.N
}

// Aggregates is the full set of buckets produced by one pass over the
// results stream, keyed by operation then size group.
type Aggregates struct {
	buckets map[bucketKey]Bucket
}

// Bucket returns the bucket for (op, group); a zero Bucket (N()==0) if no
// samples landed there.
func (a Aggregates) Bucket(op Operation, group SizeGroup) Bucket {
	return a.buckets[bucketKey{op, group}]
}

// Aggregate streams r line by line and builds the bucket set. capacityBytes
// is the device's detected capacity; 0 disables WHOLE classification
// (spec.md §3 invariant on the device context).
func Aggregate(r io.Reader, capacityBytes int64) Aggregates {
	type rawVectors struct {
		elapsedMs []float64
		mbps      []float64
		latencyMs []float64
		latencyUs []float64
	}
	raw := make(map[bucketKey]*rawVectors)

	getVec := func(k bucketKey) *rawVectors {
		v := raw[k]
		if v == nil {
			v = &rawVectors{}
			raw[k] = v
		}
		return v
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			skipped++
			continue
		}

		op, ok := normalizeOperation(strings.ToLower(strings.TrimSpace(fields[1])))
		if !ok {
			skipped++
			continue
		}

		sizeBytes, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			skipped++
			continue
		}
		group, ok := classifySize(sizeBytes, capacityBytes)
		if !ok {
			skipped++
			continue
		}

		elapsedUs, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
		if err != nil || elapsedUs <= 0 {
			skipped++
			continue
		}

		v := getVec(bucketKey{op, group})
		switch op {
		case Read:
			v.latencyUs = append(v.latencyUs, float64(elapsedUs))
			v.latencyMs = append(v.latencyMs, float64(elapsedUs)/1000.0)
			mbps := (float64(sizeBytes) / (1 << 20)) / (float64(elapsedUs) / 1e6)
			if !math.IsNaN(mbps) && !math.IsInf(mbps, 0) && mbps > 0 {
				v.mbps = append(v.mbps, mbps)
			}
		case Program, Erase:
			v.elapsedMs = append(v.elapsedMs, float64(elapsedUs)/1000.0)
		}
	}
	if skipped > 0 {
		logx.Debugf("aggregate: skipped %d malformed/unclassifiable lines of %d", skipped, lineNo)
	}

	buckets := make(map[bucketKey]Bucket, len(raw))
	for k, v := range raw {
		var b Bucket
		switch k.op {
		case Read:
			b.MBps = stats.Summarise(v.mbps)
			b.LatencyMs = stats.Summarise(v.latencyMs)
			if len(v.latencyUs) > 0 {
				sum := 0.0
				for _, x := range v.latencyUs {
					sum += x
				}
				b.ReadMeanUs = stats.Some(sum / float64(len(v.latencyUs)))
			}
		case Program, Erase:
			b.ElapsedMs = stats.Summarise(v.elapsedMs)
		}
		buckets[k] = b
	}
	return Aggregates{buckets: buckets}
}
