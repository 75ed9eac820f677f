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

package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
)

func samplePick(main ...int) spec.Pick {
	return spec.Pick{Main: spec.NewNumberSet(main...), Euro: spec.NewNumberSet(3, 9)}
}

func TestRecordCounts(t *testing.T) {
	r := NewAuditRecorder(spec.DefaultSettings())
	r.Record(samplePick(1, 11, 21, 31, 41), pick.Trace{Attempts: 7})
	r.Record(samplePick(1, 2, 21, 31, 41), pick.Trace{Attempts: 9, Relaxed: true})
	r.Record(samplePick(1, 3, 5, 31, 41), pick.Trace{Attempts: 5, RangeMisses: 2})

	b := r.Basic
	assert.Equal(t, 3, b.Picks)
	assert.Equal(t, 21, b.Attempts)
	assert.Equal(t, 2, b.Degraded)
	assert.Equal(t, 1, b.Relaxed)
	assert.Equal(t, 2, b.RangeMisses)
	assert.Equal(t, 1, b.Adjacent)
	assert.Equal(t, 1, b.Balanced)
	assert.Equal(t, 3, r.Dist.Main[0])
	assert.Equal(t, 3, r.Dist.Euro[8])
}

func TestMergeAndDone(t *testing.T) {
	a := NewAuditRecorder(spec.DefaultSettings())
	b := NewAuditRecorder(spec.DefaultSettings())
	a.Record(samplePick(1, 11, 21, 31, 41), pick.Trace{Attempts: 5})
	b.Record(samplePick(2, 12, 22, 32, 42), pick.Trace{Attempts: 5})

	m, err := MergeAuditRecorder([]*AuditRecorder{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Basic.Picks)
	assert.Equal(t, 1, m.Dist.Main[1])

	rep := m.Done(2)
	assert.Equal(t, "plain", rep.Summary.Variant)
	assert.Equal(t, 2, rep.Summary.Workers)
	assert.Equal(t, 1.0, rep.Rates.Balanced.Hat)
	assert.InDelta(t, 5.0, rep.Rates.AvgAttempts, 1e-12)
	assert.Equal(t, 10, rep.Main.Total)
}

func TestMergeRejectsDifferentSettings(t *testing.T) {
	s := spec.DefaultSettings()
	s.Variant = spec.VariantFrequency
	_, err := MergeAuditRecorder([]*AuditRecorder{NewAuditRecorder(spec.DefaultSettings()), NewAuditRecorder(s)})
	assert.Error(t, err)

	_, err = MergeAuditRecorder(nil)
	assert.Error(t, err)
}
