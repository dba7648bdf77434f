package main

import "time"

const summaryDurationPrecision = time.Second

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
