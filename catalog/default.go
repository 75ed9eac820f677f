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

package catalog

// defaultTable 內建頻率表，來源資料無法取得時使用。
// 主號取自全期開獎統計，歐元號取自 2022-03-25 起（1-12）的統計。
var defaultTable = Table{
	Main: Group{
		Hot: []Entry{
			{Number: 20, RelativeFrequency: 0.0242285714285714},
			{Number: 34, RelativeFrequency: 0.0233142857142857},
			{Number: 49, RelativeFrequency: 0.0233142857142857},
			{Number: 11, RelativeFrequency: 0.0226285714285714},
			{Number: 17, RelativeFrequency: 0.0224},
			{Number: 16, RelativeFrequency: 0.0219428571428571},
			{Number: 21, RelativeFrequency: 0.0219428571428571},
			{Number: 35, RelativeFrequency: 0.0217142857142857},
			{Number: 7, RelativeFrequency: 0.0214857142857142},
			{Number: 18, RelativeFrequency: 0.0214857142857142},
		},
		Cold: []Entry{
			{Number: 48, RelativeFrequency: 0.0153142857142857},
			{Number: 27, RelativeFrequency: 0.0169142857142857},
			{Number: 50, RelativeFrequency: 0.0169142857142857},
			{Number: 5, RelativeFrequency: 0.0171428571428571},
			{Number: 25, RelativeFrequency: 0.0171428571428571},
			{Number: 24, RelativeFrequency: 0.0178285714285714},
			{Number: 36, RelativeFrequency: 0.0178285714285714},
			{Number: 28, RelativeFrequency: 0.0180571428571428},
			{Number: 33, RelativeFrequency: 0.0185142857142857},
			{Number: 42, RelativeFrequency: 0.0185142857142857},
		},
	},
	Euro: Group{
		Hot: []Entry{
			{Number: 3, RelativeFrequency: 0.1019830028328611},
			{Number: 5, RelativeFrequency: 0.1005665722379603},
			{Number: 10, RelativeFrequency: 0.0949008498583569},
		},
		Cold: []Entry{
			{Number: 2, RelativeFrequency: 0.0708215297450425},
			{Number: 11, RelativeFrequency: 0.0722379603399433},
			{Number: 8, RelativeFrequency: 0.0736543909348441},
		},
	},
	Metadata: &Metadata{
		MainHotCount:  10,
		MainColdCount: 10,
		EuroHotCount:  3,
		EuroColdCount: 3,
		GeneratedBy:   "picklab default",
	},
}

// Default 回傳內建頻率表的複本
func Default() *Table {
	return defaultTable.Clone()
}
