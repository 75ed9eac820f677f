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

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Usage: go run scripts/ops.go [task]
//
//	test         只顯示每個套件的 ok / FAIL 與覆蓋率
//	test-detail  verbose，過濾掉 [no test files]
//	sim          以 cpu pprof 跑一次大量模擬 (build/profiling/cpu.pprof)
//	chart        以 testdata 的開獎紀錄輸出 HTML 圖表
type task struct {
	desc  string
	steps [][]string
	// filter 為 nil 時原樣輸出
	filter func(line string) (show bool, color ansiColor)
}

var tasks = map[string]task{
	"test": {
		desc:   "go test ./... -cover -count=1 (summary)",
		steps:  [][]string{{"go", "clean", "-testcache"}, {"go", "test", "./...", "-cover", "-count=1"}},
		filter: summaryOnly,
	},
	"test-detail": {
		desc:   "go test ./... -v -count=1",
		steps:  [][]string{{"go", "clean", "-testcache"}, {"go", "test", "./...", "-v", "-count=1"}},
		filter: skipNoTestFiles,
	},
	"sim": {
		desc: "profile a 1M-pick balanced simulation",
		steps: [][]string{{"go", "run", "./cmd/picklab", "--preset", "balanced", "sim",
			"--picks", "1000000", "--pprof", "cpu"}},
	},
	"chart": {
		desc:  "render testdata/draws.csv into picklab-chart.html",
		steps: [][]string{{"go", "run", "./cmd/picklab", "chart", "testdata/draws.csv", "--sim", "100000"}},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		printColor(colorYellow, fmt.Sprintf("Unknown task: %s", os.Args[1]))
		usage()
		os.Exit(1)
	}
	printColor(colorGreen, "running "+t.desc)
	for _, step := range t.steps {
		if err := run(step, t.filter); err != nil {
			printColor(colorRed, fmt.Sprintf("\n%s finished with errors: %v", strings.Join(step, " "), err))
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Println("Usage: go run scripts/ops.go [task]")
	for name, t := range tasks {
		fmt.Printf("  %-12s %s\n", name, t.desc)
	}
}

// run 執行一步；有 filter 時合併 stdout/stderr 逐行過濾
func run(step []string, filter func(string) (bool, ansiColor)) error {
	cmd := exec.Command(step[0], step[1:]...)
	if filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := scanner.Text()
		if show, c := filter(line); show {
			printColor(c, line)
		}
	}
	if err := scanner.Err(); err != nil {
		printColor(colorRed, "scanner error: "+err.Error())
	}
	return cmd.Wait()
}

// summaryOnly 等同 grep -E '^(ok|FAIL)'，另外保留編譯錯誤
func summaryOnly(line string) (bool, ansiColor) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return true, colorGreen
	case strings.HasPrefix(line, "FAIL"),
		strings.Contains(line, "build failed"),
		strings.Contains(line, "setup failed"):
		return true, colorRed
	}
	return false, colorDefault
}

// skipNoTestFiles 等同 grep -v '\[no test files\]'
func skipNoTestFiles(line string) (bool, ansiColor) {
	if strings.Contains(line, "[no test files]") {
		return false, colorDefault
	}
	if show, c := summaryOnly(line); show {
		return true, c
	}
	return true, colorDefault
}

// ANSI 顏色代碼 (Windows 10+ 的 cmd/powershell 皆支援)
type ansiColor string

const (
	colorYellow  ansiColor = "\033[33m"
	colorGreen   ansiColor = "\033[32m"
	colorRed     ansiColor = "\033[31m"
	colorDefault ansiColor = ""
	colorReset             = "\033[0m"
)

func printColor(c ansiColor, msg string) {
	if c == colorDefault {
		fmt.Println(msg)
		return
	}
	fmt.Printf("%s%s%s\n", c, msg, colorReset)
}
