package ingest

import "github.com/huangsam/fleetrisk/schema"

// demoRows is a small fleet with one heavy offender, one moderate and one careful driver.
var demoRows = []Row{
	{"차량번호": "TS-2026-01", "운전자명": "김철수", "운행거리(km)": "1200", "운전시간(분)": "1500", "과속횟수": "350", "급가속횟수": "480", "급감속횟수": "210", "급출발횟수": "150", "법규위반횟수": "45"},
	{"차량번호": "TS-2026-02", "운전자명": "박영희", "운행거리(km)": "2500", "운전시간(분)": "3000", "과속횟수": "120", "급가속횟수": "80", "급감속횟수": "50", "급출발횟수": "40", "법규위반횟수": "12"},
	{"차량번호": "TS-2026-03", "운전자명": "이지영", "운행거리(km)": "800", "운전시간(분)": "1000", "과속횟수": "15", "급가속횟수": "10", "급감속횟수": "5", "급출발횟수": "5", "법규위반횟수": "2"},
}

// DemoRecords returns the built-in demo fleet, mapped like any other input.
func DemoRecords(mask bool) []schema.DriverRecord {
	return MapRows(demoRows, mask)
}
