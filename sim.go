// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package picklab

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rcrowley/go-metrics"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/recorder"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
	"github.com/zintix-labs/picklab/stats"
)

const (
	capPrepare int = 100
	// 每 timerSample 注量測一次單注耗時
	timerSample = 32
	// 每 ctxCheck 注檢查一次 context
	ctxCheck = 1024
)

// Simulator 以多個產生器平行大量產號，統計限制條件放寬的比例與號碼分布。
type Simulator struct {
	lab       *Picklab
	settings  spec.Settings
	initSeed  int64
	seedmaker *seedMaker
	gBuf      []*pick.Generator         // 併發產生器
	rBuf      []*recorder.AuditRecorder // 併發紀錄員
}

func newSimulator(lab *Picklab, s spec.Settings, seed int64) *Simulator {
	sim := &Simulator{
		lab:       lab,
		settings:  s,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		gBuf:      make([]*pick.Generator, 1, capPrepare),
		rBuf:      make([]*recorder.AuditRecorder, 0, capPrepare),
	}
	sim.gBuf[0] = lab.newGenerator(seed)
	return sim
}

// Seed 建立時的 seed；第一個 worker 與 NewSessionWithSeed(seed) 的亂數序列相同
func (s *Simulator) Seed() int64 {
	return s.initSeed
}

// Sim 單線模擬：一個產生器連續產生 picks 注
func (s *Simulator) Sim(ctx context.Context, picks int, showpb bool) (*stats.AuditReport, time.Duration, error) {
	return s.SimMP(ctx, picks, 1, showpb)
}

// SimMP 平行執行 workers 個產生器，每個產生 picks 注，合併統計後回傳報告與用時。
func (s *Simulator) SimMP(ctx context.Context, picks int, workers int, showpb bool) (*stats.AuditReport, time.Duration, error) {
	defer s.reset()
	if workers <= 0 {
		return nil, 0, errs.InvalidSettingsf("workers must > 0, got %d", workers)
	}
	if picks < 1 {
		return nil, 0, errs.InvalidSettingsf("picks must > 0, got %d", picks)
	}
	for len(s.gBuf) < workers {
		s.gBuf = append(s.gBuf, s.lab.newGenerator(s.seedmaker.next()))
	}
	for len(s.rBuf) < workers {
		s.rBuf = append(s.rBuf, recorder.NewAuditRecorder(s.settings))
	}

	meter := metrics.NewMeter()
	defer meter.Stop()
	timer := metrics.NewTimer()
	defer timer.Stop()

	var (
		firstErr error
		errOnce  sync.Once
		failed   atomic.Bool
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			failed.Store(true)
		})
	}

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.New(picks * workers)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			g := s.gBuf[i]
			rec := s.rBuf[i]
			st := s.settings.Clone()
			for n := 0; n < picks; n++ {
				if n%ctxCheck == 0 {
					if err := ctx.Err(); err != nil {
						fail(errs.Wrap(err, "simulation cancelled"))
						return
					}
					if failed.Load() {
						return
					}
				}
				var start time.Time
				if n%timerSample == 0 {
					start = time.Now()
				}
				p, tr, err := g.Pick(&st)
				if err != nil {
					fail(err)
					return
				}
				if !start.IsZero() {
					timer.UpdateSince(start)
				}
				rec.Record(p, tr)
				meter.Mark(1)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if firstErr != nil {
		return nil, used, firstErr
	}

	merged, err := recorder.MergeAuditRecorder(s.rBuf[:workers])
	if err != nil {
		return nil, used, err
	}
	report := merged.Done(workers)
	report.Speed = &stats.Throughput{
		Count:    meter.Count(),
		MeanRate: float64(meter.Count()) / max(used.Seconds(), 1e-9),
		P50Micro: timer.Percentile(0.5) / float64(time.Microsecond),
		P99Micro: timer.Percentile(0.99) / float64(time.Microsecond),
	}
	s.lab.log.Info("simulation done",
		slog.String("variant", string(s.settings.Variant)),
		slog.Int("workers", workers),
		slog.Int64("picks", meter.Count()),
		slog.Duration("used", used),
		slog.Float64("degraded_rate", report.Rates.Degraded.Hat),
	)
	return report, used, nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆 mix63 打散。
//
// 可能被多個 goroutine 同時呼叫，以 CAS 迴圈確保每次取得唯一的下一個 state。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
