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
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

var pickLine = regexp.MustCompile(`^Pick\s+\d+:\s*Main:\s*([0-9,\s]+?)\s*\|\s*Euro:\s*([0-9,\s]+?)\s*$`)

// ParseExport 讀回匯出檔中的 "Pick i: Main: ... | Euro: ..." 行，其餘行略過。
func ParseExport(r io.Reader) ([]spec.Pick, error) {
	sc := bufio.NewScanner(r)
	picks := make([]spec.Pick, 0, 16)
	line := 0
	for sc.Scan() {
		line++
		m := pickLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		main, err := parseList(m[1])
		if err != nil {
			return nil, errs.WrapWithExtra(err, "invalid pick line", "line "+strconv.Itoa(line))
		}
		euro, err := parseList(m[2])
		if err != nil {
			return nil, errs.WrapWithExtra(err, "invalid pick line", "line "+strconv.Itoa(line))
		}
		p := spec.Pick{Main: spec.NewNumberSet(main...), Euro: spec.NewNumberSet(euro...)}
		if err := p.Validate(); err != nil {
			return nil, errs.WrapWithExtra(err, "invalid pick line", "line "+strconv.Itoa(line))
		}
		picks = append(picks, p)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, "read export")
	}
	if len(picks) == 0 {
		return nil, errs.EmptyResultf("no pick lines found")
	}
	return picks, nil
}

func parseList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errs.InvalidRangef("not a number: %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
