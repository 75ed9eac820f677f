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

package errs

import "errors"

// Kind 為錯誤分類。
type Kind uint8

const (
	KindNone Kind = iota
	// KindInvalidRange : 區間不合法、k 超出可選號碼數量等，無法產生結果
	KindInvalidRange
	// KindDataUnavailable : 頻率資料無法取得或格式錯誤，呼叫端應改用內建預設表
	KindDataUnavailable
	// KindEmptyResult : 尚未產生任何號碼就要求匯出
	KindEmptyResult
	// KindInvalidSettings : 設定值型別或範圍錯誤
	KindInvalidSettings
	// KindClosed : 物件已釋放
	KindClosed
)

var kindMap = map[Kind]string{
	KindNone:            "",
	KindInvalidRange:    "invalid_range",
	KindDataUnavailable: "data_unavailable",
	KindEmptyResult:     "empty_result",
	KindInvalidSettings: "invalid_settings",
	KindClosed:          "closed",
}

func (k Kind) String() string {
	return kindMap[k]
}

// 分類哨兵：僅供 errors.Is 比對使用，請勿直接回傳。
var (
	ErrInvalidRange    = &E{Message: "invalid range", ErrLv: Warn, Kind: KindInvalidRange}
	ErrDataUnavailable = &E{Message: "data unavailable", ErrLv: Log, Kind: KindDataUnavailable}
	ErrEmptyResult     = &E{Message: "empty result", ErrLv: Warn, Kind: KindEmptyResult}
	ErrInvalidSettings = &E{Message: "invalid settings", ErrLv: Warn, Kind: KindInvalidSettings}
	ErrClosed          = &E{Message: "closed", ErrLv: Fatal, Kind: KindClosed}
)

func withKind(e *E, k Kind) *E {
	e.Kind = k
	return e
}

func InvalidRangef(format string, a ...any) *E {
	return withKind(Warnf(format, a...), KindInvalidRange)
}

// DataUnavailable 包裝資料來源錯誤，嚴重度固定為 Log（由呼叫端退回預設表）。
func DataUnavailable(cause error, source string) *E {
	e := NewWithExtra(Log, "frequency data unavailable", source)
	e.Cause = cause
	return withKind(e, KindDataUnavailable)
}

func EmptyResultf(format string, a ...any) *E {
	return withKind(Warnf(format, a...), KindEmptyResult)
}

func InvalidSettingsf(format string, a ...any) *E {
	return withKind(Warnf(format, a...), KindInvalidSettings)
}

func Closedf(format string, a ...any) *E {
	return withKind(Fatalf(format, a...), KindClosed)
}

// IsKind 回報 err 鏈上是否有分類為 k 的錯誤。
func IsKind(err error, k Kind) bool {
	return errors.Is(err, &E{Kind: k})
}
